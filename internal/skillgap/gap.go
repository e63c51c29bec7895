// Package skillgap compares self-reported skills with the requirements of
// a target role, suggests courses and builds phased learning plans.
package skillgap

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// UserSkill is one parsed "Skill:Level" entry. Level is nil when the user
// gave no (numeric) level.
type UserSkill struct {
	Name  string   `json:"skill"`
	Level *float64 `json:"user_level"`
}

var skillSep = regexp.MustCompile(`[,\n;]+`)

// ParseUserSkills splits free text like "SQL:3, Python; Excel:4" into
// skills. A repeated skill keeps its first position and last level.
func ParseUserSkills(raw string) []UserSkill {
	var out []UserSkill
	index := map[string]int{}
	for _, part := range skillSep.Split(raw, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, lvl := part, (*float64)(nil)
		if i := strings.Index(part, ":"); i >= 0 {
			name = strings.TrimSpace(part[:i])
			if v, err := strconv.ParseFloat(strings.TrimSpace(part[i+1:]), 64); err == nil {
				lvl = &v
			}
		}
		if j, ok := index[name]; ok {
			out[j].Level = lvl
			continue
		}
		index[name] = len(out)
		out = append(out, UserSkill{Name: name, Level: lvl})
	}
	return out
}

type Item struct {
	Skill       string   `json:"skill"`
	Required    float64  `json:"required_level"`
	UserLevel   *float64 `json:"user_level"`
	GapValue    float64  `json:"gap_value,omitempty"`
	Weight      float64  `json:"weight"`
	Description string   `json:"description"`
	BaseCourses string   `json:"base_courses"`
}

type Gap struct {
	Missing        []Item      `json:"missing"`
	Underdeveloped []Item      `json:"underdeveloped"`
	Met            []Item      `json:"met"`
	Extra          []UserSkill `json:"extra"`
}

type Stats struct {
	TotalRequired    int     `json:"total_required_skills"`
	Met              int     `json:"met"`
	Underdeveloped   int     `json:"underdeveloped"`
	Missing          int     `json:"missing"`
	Extra            int     `json:"extra"`
	WeightedGapIndex float64 `json:"weighted_gap_index"`
}

// Readiness is 1 - gap index as a percentage with one decimal.
func (s Stats) Readiness() float64 {
	return math.Round((1-s.WeightedGapIndex)*1000) / 10
}

// Compute classifies every required skill of the role against the user's
// skills, mapping user skill names onto canonical ones when fuzzy is set.
func Compute(required []RoleSkill, user []UserSkill, fuzzy bool) Gap {
	canonical := make([]string, 0, len(required))
	for _, rs := range required {
		canonical = append(canonical, rs.Skill)
	}

	var normalized []UserSkill
	index := map[string]int{}
	for _, us := range user {
		name := strings.TrimSpace(us.Name)
		if fuzzy {
			name = Canonical(name, canonical)
		}
		if j, ok := index[name]; ok {
			normalized[j].Level = us.Level
			continue
		}
		index[name] = len(normalized)
		normalized = append(normalized, UserSkill{Name: name, Level: us.Level})
	}

	gap := Gap{
		Missing:        []Item{},
		Underdeveloped: []Item{},
		Met:            []Item{},
		Extra:          []UserSkill{},
	}
	requiredSet := map[string]bool{}
	for _, rs := range required {
		requiredSet[rs.Skill] = true
		it := Item{
			Skill:       rs.Skill,
			Required:    rs.Level,
			Weight:      rs.Weight,
			Description: rs.Description,
			BaseCourses: rs.Courses,
		}
		j, listed := index[rs.Skill]
		switch {
		case !listed || normalized[j].Level == nil:
			gap.Missing = append(gap.Missing, it)
		case rs.Level <= 0:
			it.UserLevel = normalized[j].Level
			gap.Met = append(gap.Met, it)
		case *normalized[j].Level >= rs.Level:
			it.UserLevel = normalized[j].Level
			gap.Met = append(gap.Met, it)
		default:
			it.UserLevel = normalized[j].Level
			it.GapValue = rs.Level - *normalized[j].Level
			gap.Underdeveloped = append(gap.Underdeveloped, it)
		}
	}
	for _, us := range normalized {
		if !requiredSet[us.Name] {
			gap.Extra = append(gap.Extra, us)
		}
	}
	return gap
}

func weightOr1(w float64) float64 {
	if w == 0 {
		return 1
	}
	return w
}

// Summarize computes the counts and the weighted gap index. The index is
// 0 when nothing is missing or underdeveloped.
func Summarize(g Gap) Stats {
	st := Stats{
		Met:            len(g.Met),
		Underdeveloped: len(g.Underdeveloped),
		Missing:        len(g.Missing),
		Extra:          len(g.Extra),
	}
	st.TotalRequired = st.Met + st.Underdeveloped + st.Missing

	var score, weights float64
	for _, it := range g.Underdeveloped {
		if it.Required <= 0 {
			continue
		}
		user := 0.0
		if it.UserLevel != nil {
			user = *it.UserLevel
		}
		w := weightOr1(it.Weight)
		score += (it.Required - user) / it.Required * w
		weights += w
	}
	for _, it := range g.Missing {
		w := weightOr1(it.Weight)
		score += w
		weights += w
	}
	if weights > 0 {
		st.WeightedGapIndex = math.Round(score/weights*1000) / 1000
	}
	return st
}

// CourseSuggestion lists courses for one skill that needs work.
type CourseSuggestion struct {
	Skill   string   `json:"skill"`
	Courses []string `json:"courses"`
}

// Suggestions gathers internal course codes followed by external courses
// for each missing then underdeveloped skill, without duplicates.
func Suggestions(g Gap) []CourseSuggestion {
	var out []CourseSuggestion
	for _, section := range [][]Item{g.Missing, g.Underdeveloped} {
		for _, it := range section {
			out = append(out, CourseSuggestion{Skill: it.Skill, Courses: coursesFor(it.Skill, it.BaseCourses)})
		}
	}
	return out
}

func coursesFor(skill, base string) []string {
	var all []string
	for _, c := range strings.Split(base, ";") {
		if c = strings.TrimSpace(c); c != "" {
			all = append(all, c)
		}
	}
	all = append(all, ExternalCourses[skill]...)
	return dedupe(all)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// DetectSkills finds catalog skills mentioned in free text.
func DetectSkills(texts []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range texts {
		lower := strings.ToLower(t)
		for _, s := range skillNames() {
			if !seen[s] && strings.Contains(lower, strings.ToLower(s)) {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// RecommendFromTakeaways suggests courses for skills mentioned in mentor
// session takeaways.
func RecommendFromTakeaways(takeaways []string) []CourseSuggestion {
	var out []CourseSuggestion
	for _, s := range DetectSkills(takeaways) {
		out = append(out, CourseSuggestion{Skill: s, Courses: coursesFor(s, baseCourses(s))})
	}
	return out
}
