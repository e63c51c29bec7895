package skillgap

import (
	"fmt"
	"strconv"
	"strings"
)

func fmtLevel(v *float64) string {
	if v == nil {
		return "None"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func skillLines(items []Item, showHave bool) string {
	if len(items) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if showHave {
			lines = append(lines, fmt.Sprintf("- %s (Have: %s / Need: %s | Weight %s)",
				it.Skill, fmtLevel(it.UserLevel), fmtNum(it.Required), fmtNum(it.Weight)))
		} else {
			lines = append(lines, fmt.Sprintf("- %s (Need Level %s | Weight %s)",
				it.Skill, fmtNum(it.Required), fmtNum(it.Weight)))
		}
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt asks the model for a three phase upskilling roadmap. A
// non-empty takeaway is folded into the Phase 1 actions.
func BuildPrompt(role string, g Gap, st Stats, courses []CourseSuggestion, takeaway string) string {
	var cb []string
	for _, c := range courses {
		if len(c.Courses) > 0 {
			cb = append(cb, fmt.Sprintf("%s: %s", c.Skill, strings.Join(c.Courses, ", ")))
		}
	}
	courseBlock := "No baseline course suggestions found."
	if len(cb) > 0 {
		courseBlock = strings.Join(cb, "\n")
	}

	var b strings.Builder
	b.WriteString("You are a professional upskilling advisor.\n\n")
	fmt.Fprintf(&b, "Role: %s\n\n", role)
	b.WriteString("Weighted Gap Stats:\n")
	fmt.Fprintf(&b, "- Total Required Skills: %d\n", st.TotalRequired)
	fmt.Fprintf(&b, "- Met: %d\n", st.Met)
	fmt.Fprintf(&b, "- Underdeveloped: %d\n", st.Underdeveloped)
	fmt.Fprintf(&b, "- Missing: %d\n", st.Missing)
	fmt.Fprintf(&b, "- Weighted Gap Index (0 best, 1 worst): %s\n\n", fmtNum(st.WeightedGapIndex))
	fmt.Fprintf(&b, "Missing Skills:\n%s\n\n", skillLines(g.Missing, false))
	fmt.Fprintf(&b, "Underdeveloped Skills:\n%s\n\n", skillLines(g.Underdeveloped, true))
	fmt.Fprintf(&b, "Met Skills:\n%s\n\n", skillLines(g.Met, true))
	fmt.Fprintf(&b, "Baseline Course Suggestions (raw):\n%s\n\n", courseBlock)

	takeaway = strings.TrimSpace(takeaway)
	if takeaway != "" {
		fmt.Fprintf(&b, "Employee takeaway from the latest mentor session:\n%s\n\n", takeaway)
	}

	b.WriteString("TASK:\n")
	b.WriteString("1. Produce a prioritized learning roadmap (Phase 1 quick wins, Phase 2 core, Phase 3 advanced).\n")
	b.WriteString("2. For each skill in phases: rationale (1 sentence), 1-2 courses, mini practice project.\n")
	b.WriteString("3. Suggest timeline (weeks) per phase assuming 5-6 hrs/week.\n")
	b.WriteString("4. Highlight interdependencies.\n")
	b.WriteString("5. Provide 3 measurable progress metrics.\n")
	if takeaway != "" {
		b.WriteString("CRITICAL RULE: Do NOT create a separate 'Takeaway' section anywhere. " +
			"Instead, incorporate the employee takeaway context directly into Phase 1 actions " +
			"(for example, by marking a Phase 1 action as '(Employee takeaway)').\n")
	}
	return b.String()
}
