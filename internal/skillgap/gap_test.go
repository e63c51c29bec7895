package skillgap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(items []Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Skill)
	}
	return out
}

func TestParseUserSkills(t *testing.T) {
	got := ParseUserSkills("SQL:3, Python ;Excel: x\nSQL:4,,")
	require.Len(t, got, 3)
	assert.Equal(t, "SQL", got[0].Name)
	require.NotNil(t, got[0].Level)
	assert.Equal(t, 4.0, *got[0].Level)
	assert.Nil(t, got[1].Level)
	assert.Equal(t, "Excel", got[2].Name)
	assert.Nil(t, got[2].Level)

	assert.Empty(t, ParseUserSkills(""))
}

func TestCompute_DataAnalyst(t *testing.T) {
	req, err := RoleSkills("data analyst")
	require.NoError(t, err)

	// Excel is listed without a level, so it counts as missing
	g := Compute(req, ParseUserSkills("sql:5, PowerBI:2, Pyhton:3, Tableau:4, Excel"), true)
	assert.Equal(t, []string{"SQL"}, names(g.Met))
	assert.Equal(t, []string{"Power BI"}, names(g.Underdeveloped))
	assert.Equal(t, 1.0, g.Underdeveloped[0].GapValue)
	assert.Equal(t, []string{"Excel", "Python"}, names(g.Missing))
	assert.Nil(t, g.Missing[0].UserLevel)
	require.Len(t, g.Extra, 2)
	assert.Equal(t, "Pyhton", g.Extra[0].Name)
	assert.Equal(t, "Tableau", g.Extra[1].Name)

	st := Summarize(g)
	assert.Equal(t, Stats{TotalRequired: 4, Met: 1, Underdeveloped: 1, Missing: 2, Extra: 2, WeightedGapIndex: 0.768}, st)
	assert.Equal(t, 23.2, st.Readiness())

	sug := Suggestions(g)
	require.Len(t, sug, 3)
	assert.Equal(t, CourseSuggestion{Skill: "Excel", Courses: []string{"BI103"}}, sug[0])
	assert.Equal(t, "Python", sug[1].Skill)
	assert.Equal(t, []string{"BI104", "Coursera: Python for Everybody", "Internal: DS101", "LeetCode practice sets"}, sug[1].Courses)
	assert.Equal(t, CourseSuggestion{Skill: "Power BI", Courses: []string{"BI102"}}, sug[2])
}

func TestCompute_UnleveledSkillIsMissing(t *testing.T) {
	req, err := RoleSkills("data analyst")
	require.NoError(t, err)

	g := Compute(req, ParseUserSkills("Excel"), true)
	assert.Empty(t, g.Met)
	assert.Len(t, g.Missing, 4)
	assert.Empty(t, g.Extra)
	assert.Equal(t, 1.0, Summarize(g).WeightedGapIndex)

	// a required skill without a numeric level is met by any listing
	req[0].Level = 0
	g = Compute(req, ParseUserSkills("SQL"), true)
	assert.Equal(t, []string{"SQL"}, names(g.Met))
}

func TestCompute_NoFuzzy(t *testing.T) {
	req, err := RoleSkills("Data Analyst")
	require.NoError(t, err)

	g := Compute(req, ParseUserSkills("PowerBI:3"), false)
	assert.Len(t, g.Missing, 4)
	assert.Equal(t, "PowerBI", g.Extra[0].Name)
	assert.Equal(t, 1.0, Summarize(g).WeightedGapIndex)
}

func TestSummarize_AllMet(t *testing.T) {
	req, err := RoleSkills("Data Analyst")
	require.NoError(t, err)

	st := Summarize(Compute(req, ParseUserSkills("SQL:4, Power BI:5, Excel:4, Python:3"), true))
	assert.Equal(t, 4, st.Met)
	assert.Equal(t, 0.0, st.WeightedGapIndex)
	assert.Equal(t, 100.0, st.Readiness())
}

func TestRoleSkills_Unknown(t *testing.T) {
	_, err := RoleSkills("Astronaut")
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.Len(t, Roles(), 11)
}

func TestCoursesFor_Dedupes(t *testing.T) {
	got := coursesFor("SQL", "Internal: DS102; BI101;;")
	assert.Equal(t, []string{"Internal: DS102", "BI101", "Mode Analytics SQL Tutorial", "Coursera: Advanced SQL"}, got)
}

func TestRecommendFromTakeaways(t *testing.T) {
	recs := RecommendFromTakeaways([]string{"Mentor said my sql is fine but I should learn ABAP next"})
	require.Len(t, recs, 2)
	assert.Equal(t, "SQL", recs[0].Skill)
	assert.Equal(t, []string{"BI101", "BI201", "Internal: DS102", "Mode Analytics SQL Tutorial", "Coursera: Advanced SQL"}, recs[0].Courses)
	assert.Equal(t, "ABAP", recs[1].Skill)
	assert.Equal(t, []string{"ERP102"}, recs[1].Courses)

	assert.Empty(t, RecommendFromTakeaways([]string{"nothing relevant"}))
}

func TestBuildPrompt(t *testing.T) {
	req, err := RoleSkills("Data Analyst")
	require.NoError(t, err)
	g := Compute(req, ParseUserSkills("SQL:2"), true)
	st := Summarize(g)

	p := BuildPrompt("Data Analyst", g, st, Suggestions(g), "")
	assert.Contains(t, p, "Role: Data Analyst")
	assert.Contains(t, p, "- SQL (Have: 2 / Need: 4 | Weight 1)")
	assert.Contains(t, p, "- Python (Need Level 3 | Weight 0.8)")
	assert.Contains(t, p, "Met Skills:\nNone")
	assert.Contains(t, p, "Phase 1 quick wins")
	assert.NotContains(t, p, "CRITICAL RULE")

	p = BuildPrompt("Data Analyst", g, st, nil, "learn window functions")
	assert.Contains(t, p, "No baseline course suggestions found.")
	assert.Contains(t, p, "learn window functions")
	assert.Contains(t, p, "(Employee takeaway)")
}
