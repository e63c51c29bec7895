package skillgap

import (
	"sort"
	"strings"
	"unicode"
)

// MatchThreshold is the minimum WRatio score for a user skill to be mapped
// onto a canonical skill name.
const MatchThreshold = 85

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ratio is a 0..100 similarity from the insert/delete distance over the
// combined length of both strings. A substitution costs 2.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	d := total - 2*lcs(ra, rb)
	return 100 * (1 - float64(d)/float64(total))
}

// lcs is the length of the longest common subsequence of a and b.
func lcs(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// partialRatio scores the shorter string against its best aligned window
// in the longer one.
func partialRatio(a, b string) float64 {
	sa, sb := []rune(a), []rune(b)
	if len(sa) > len(sb) {
		sa, sb = sb, sa
	}
	if len(sa) == 0 {
		return 0
	}
	best := 0.0
	for i := 0; i+len(sa) <= len(sb); i++ {
		if r := ratio(string(sa), string(sb[i:i+len(sa)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) []string {
	t := strings.Fields(s)
	sort.Strings(t)
	return t
}

func tokenSortRatio(a, b string, partial bool) float64 {
	x, y := strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " ")
	if partial {
		return partialRatio(x, y)
	}
	return ratio(x, y)
}

func tokenSetRatio(a, b string, partial bool) float64 {
	ta, tb := map[string]bool{}, map[string]bool{}
	for _, t := range strings.Fields(a) {
		ta[t] = true
	}
	for _, t := range strings.Fields(b) {
		tb[t] = true
	}
	var inter, onlyA, onlyB []string
	for t := range ta {
		if tb[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tb {
		if !ta[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	// one side fully contained in the other
	if len(inter) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	base := strings.Join(inter, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))
	score := ratio
	if partial {
		score = partialRatio
	}
	best := score(withA, withB)
	if base != "" {
		if r := score(base, withA); r > best {
			best = r
		}
		if r := score(base, withB); r > best {
			best = r
		}
	}
	return best
}

// WRatio combines plain, partial and token based scores the way common
// fuzzy matching libraries weight them. Inputs are case and punctuation
// insensitive.
func WRatio(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	if a == "" || b == "" {
		return 0
	}
	la, lb := float64(len([]rune(a))), float64(len([]rune(b)))
	lenRatio := la / lb
	if lb > la {
		lenRatio = lb / la
	}

	best := ratio(a, b)
	if lenRatio < 1.5 {
		tok := tokenSortRatio(a, b, false)
		if s := tokenSetRatio(a, b, false); s > tok {
			tok = s
		}
		if s := tok * 0.95; s > best {
			best = s
		}
		return round1(best)
	}

	scale := 0.9
	if lenRatio >= 8 {
		scale = 0.6
	}
	if s := partialRatio(a, b) * scale; s > best {
		best = s
	}
	tok := tokenSortRatio(a, b, true)
	if s := tokenSetRatio(a, b, true); s > tok {
		tok = s
	}
	if s := tok * 0.95 * scale; s > best {
		best = s
	}
	return round1(best)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// BestMatch returns the candidate with the highest WRatio score; ties go
// to the earlier candidate.
func BestMatch(s string, candidates []string) (string, float64) {
	var (
		match string
		best  = -1.0
	)
	for _, c := range candidates {
		if sc := WRatio(s, c); sc > best {
			match, best = c, sc
		}
	}
	if best < 0 {
		return "", 0
	}
	return match, best
}

// Canonical maps skill onto a candidate when the match reaches
// MatchThreshold and otherwise returns skill unchanged.
func Canonical(skill string, candidates []string) string {
	m, score := BestMatch(skill, candidates)
	if m != "" && score >= MatchThreshold {
		return m
	}
	return skill
}
