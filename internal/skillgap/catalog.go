package skillgap

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

// RoleSkill is one required skill of a target role. Courses holds internal
// course codes separated by ";".
type RoleSkill struct {
	Role        string  `json:"role"`
	Skill       string  `json:"skill"`
	Level       float64 `json:"required_level"`
	Category    string  `json:"category"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
	Courses     string  `json:"courses"`
}

var catalog = []RoleSkill{
	{"Data Analyst", "SQL", 4, "Data", 1.0, "Advanced SQL for analytics", "BI101;BI201"},
	{"Data Analyst", "Power BI", 3, "Visualization", 0.8, "Build dashboards & reports", "BI102"},
	{"Data Analyst", "Excel", 4, "Data", 0.7, "Data manipulation & pivot tables", "BI103"},
	{"Data Analyst", "Python", 3, "Programming", 0.8, "Python for data cleaning and analysis", "BI104"},

	{"SAP BTP Development Engineer", "SAP BTP", 4, "Platform", 1.0, "Develop & deploy on SAP BTP", "BTP101"},
	{"SAP BTP Development Engineer", "Java", 3, "Programming", 0.7, "Back-end services on BTP", "BTP102"},
	{"SAP BTP Development Engineer", "CAP (Cloud Application Programming)", 3, "Framework", 0.7, "Model and build apps on SAP BTP", "BTP103"},
	{"SAP BTP Development Engineer", "Python", 2, "Programming", 0.4, "Basic scripting for automation", "BTP104"},

	{"SAP Intelligent ERP Engineer", "SAP S/4HANA", 4, "ERP", 1.0, "Configure & customize S/4HANA", "ERP101"},
	{"SAP Intelligent ERP Engineer", "ABAP", 3, "Programming", 0.8, "Develop custom ERP logic", "ERP102"},
	{"SAP Intelligent ERP Engineer", "Fiori", 3, "UI", 0.7, "Design Fiori apps for ERP", "ERP103"},
	{"SAP Intelligent ERP Engineer", "Excel", 2, "Data", 0.4, "Use Excel for reporting and analysis", "ERP104"},

	{"CX AI Solutions Engineer", "SAP C4C", 3, "CRM", 0.8, "Customer Experience Cloud", "CX101"},
	{"CX AI Solutions Engineer", "AI/ML", 3, "AI", 0.7, "Embed AI for CX", "CX102"},
	{"CX AI Solutions Engineer", "Integration", 3, "API", 0.6, "Integrate CX platforms", "CX103"},
	{"CX AI Solutions Engineer", "Python", 2, "Programming", 0.4, "Basic Python for AI integration", "CX104"},

	{"S/4HANA Cloud Engineer", "SAP S/4HANA Cloud", 4, "ERP", 1.0, "Cloud ERP configuration", "S4C101"},
	{"S/4HANA Cloud Engineer", "ABAP", 3, "Programming", 0.7, "Cloud ABAP development", "S4C102"},
	{"S/4HANA Cloud Engineer", "Cloud Integration", 3, "Integration", 0.7, "Integrate with other cloud apps", "S4C103"},
	{"S/4HANA Cloud Engineer", "Excel", 2, "Data", 0.4, "Basic reporting with Excel", "S4C104"},

	{"SAP Joule Copilot Engineer", "SAP Joule", 4, "AI", 1.0, "Develop & configure Joule Copilot", "Joule101"},
	{"SAP Joule Copilot Engineer", "Conversational AI", 3, "AI", 0.8, "Design dialogue & flows", "Joule102"},
	{"SAP Joule Copilot Engineer", "API Integration", 3, "API", 0.6, "Integrate Copilot with SAP APIs", "Joule103"},
	{"SAP Joule Copilot Engineer", "Python", 2, "Programming", 0.4, "Basic Python for conversational AI", "Joule104"},

	{"Supply Chain Intelligence Engineer", "SAP IBP", 4, "Supply Chain", 1.0, "Integrated Business Planning", "SC101"},
	{"Supply Chain Intelligence Engineer", "Analytics", 3, "Data", 0.8, "Analyze supply chain data", "SC102"},
	{"Supply Chain Intelligence Engineer", "Python", 3, "Programming", 0.6, "Automate supply chain tasks", "SC103"},
	{"Supply Chain Intelligence Engineer", "Excel", 2, "Data", 0.4, "Basic supply chain analysis in Excel", "SC104"},

	{"SAP Industry Cloud Engineer", "SAP Industry Cloud", 4, "Cloud", 1.0, "Industry-specific cloud solutions", "IC101"},
	{"SAP Industry Cloud Engineer", "JavaScript", 3, "Programming", 0.7, "Front-end cloud development", "IC102"},
	{"SAP Industry Cloud Engineer", "Integration", 3, "API", 0.6, "Integrate cloud apps", "IC103"},
	{"SAP Industry Cloud Engineer", "Python", 2, "Programming", 0.4, "Basic scripting for cloud automation", "IC104"},

	{"Integration & API Engineer", "SAP CPI", 4, "Integration", 1.0, "Cloud Platform Integration", "API101"},
	{"Integration & API Engineer", "REST APIs", 3, "API", 0.8, "Design & consume APIs", "API102"},
	{"Integration & API Engineer", "OData", 3, "API", 0.7, "Build OData services", "API103"},
	{"Integration & API Engineer", "Python", 2, "Programming", 0.4, "Python for automation and integration", "API104"},

	{"IT support / Technician", "SAP Basis", 4, "IT Support", 1.0, "System administration & monitoring", "ITS101"},
	{"IT support / Technician", "Networking", 3, "IT Support", 0.8, "Network troubleshooting", "ITS102"},
	{"IT support / Technician", "Windows/Linux", 3, "IT Support", 0.7, "OS support & scripting", "ITS103"},
	{"IT support / Technician", "Python", 2, "Programming", 0.4, "Basic Python for IT automation", "ITS104"},
	{"IT support / Technician", "Excel", 2, "Data", 0.4, "Excel for IT reporting", "ITS105"},

	{"Digital Transformation Analyst", "SAP Digital Transformation", 4, "Transformation", 1.0, "Process digitization & change management", "DTA101"},
	{"Digital Transformation Analyst", "Project Management", 3, "Management", 0.8, "Lead transformation projects", "DTA102"},
	{"Digital Transformation Analyst", "Business Process Modeling", 3, "Process", 0.7, "Map & optimize business processes", "DTA103"},
	{"Digital Transformation Analyst", "Python", 2, "Programming", 0.4, "Basic scripting for process automation", "DTA104"},
	{"Digital Transformation Analyst", "Excel", 2, "Data", 0.4, "Excel for analysis and reporting", "DTA105"},
}

// ExternalCourses supplements the internal course codes for popular skills.
var ExternalCourses = map[string][]string{
	"Python":           {"Coursera: Python for Everybody", "Internal: DS101", "LeetCode practice sets"},
	"SQL":              {"Internal: DS102", "Mode Analytics SQL Tutorial", "Coursera: Advanced SQL"},
	"Statistics":       {"Internal: DS103", "Khan Academy: Statistics & Probability"},
	"Machine Learning": {"Internal: DS201", "Andrew Ng ML", "Hands-On ML Book"},
	"Airflow":          {"Astronomer Academy Core", "Internal: DE201"},
}

// Roles lists the catalog roles in catalog order.
func Roles() []string {
	var out []string
	seen := map[string]bool{}
	for _, rs := range catalog {
		if !seen[rs.Role] {
			seen[rs.Role] = true
			out = append(out, rs.Role)
		}
	}
	return out
}

// RoleSkills returns the required skills of role (case-insensitive).
func RoleSkills(role string) ([]RoleSkill, error) {
	var out []RoleSkill
	for _, rs := range catalog {
		if strings.EqualFold(rs.Role, strings.TrimSpace(role)) {
			out = append(out, rs)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return out, nil
}

// skillNames returns every distinct skill in the catalog, first seen first.
func skillNames() []string {
	var out []string
	seen := map[string]bool{}
	for _, rs := range catalog {
		if !seen[rs.Skill] {
			seen[rs.Skill] = true
			out = append(out, rs.Skill)
		}
	}
	return out
}

// baseCourses returns the course codes of the first catalog row for skill.
func baseCourses(skill string) string {
	for _, rs := range catalog {
		if rs.Skill == skill {
			return rs.Courses
		}
	}
	return ""
}
