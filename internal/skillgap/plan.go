package skillgap

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	phasePattern = regexp.MustCompile(`(?i)(Phase\s+(\d+))[^0-9]*(\b(\d+)\s*weeks?\b)`)
	phaseHeading = regexp.MustCompile(`(?i)^\s{0,3}(?:#+\s*)?(Phase\s+(\d+)[^\n:]*):?(.*)$`)
	bulletRe     = regexp.MustCompile(`^[-*•]\s+`)
	numberedRe   = regexp.MustCompile(`^\d+\.[)\s]`)
)

// MaxBullets caps how many bullets ExtractBullets returns per section.
const MaxBullets = 6

// ParsePhaseDurations finds "Phase N ... M weeks" pairs. Later mentions of
// the same phase win; zero weeks are ignored.
func ParsePhaseDurations(plan string) map[int]int {
	out := map[int]int{}
	for _, m := range phasePattern.FindAllStringSubmatch(plan, -1) {
		phase, err1 := strconv.Atoi(m[2])
		weeks, err2 := strconv.Atoi(m[4])
		if err1 != nil || err2 != nil || weeks <= 0 {
			continue
		}
		out[phase] = weeks
	}
	return out
}

type Section struct {
	Title   string   `json:"title"`
	Phase   int      `json:"phase"` // 0 for the overview
	Body    string   `json:"body"`
	Bullets []string `json:"bullets"`
}

// SplitSections cuts the plan at phase headings. Text before the first
// heading becomes an "Overview" section.
func SplitSections(plan string) []Section {
	if strings.TrimSpace(plan) == "" {
		return nil
	}
	var (
		out   []Section
		cur   = Section{Title: "Overview"}
		lines []string
	)
	flush := func() {
		if len(lines) == 0 {
			return
		}
		cur.Body = strings.TrimSpace(strings.Join(lines, "\n"))
		cur.Bullets = ExtractBullets(cur.Body, MaxBullets)
		out = append(out, cur)
	}
	for _, line := range strings.Split(plan, "\n") {
		line = strings.TrimRight(line, "\r")
		m := phaseHeading.FindStringSubmatch(line)
		if m == nil {
			lines = append(lines, line)
			continue
		}
		flush()
		n, _ := strconv.Atoi(m[2])
		cur = Section{Title: strings.TrimRight(strings.TrimSpace(m[1]), ":"), Phase: n}
		lines = nil
		if rest := strings.TrimSpace(m[3]); rest != "" {
			lines = append(lines, rest)
		}
	}
	flush()
	return out
}

// ExtractBullets returns up to max "-", "*", "•" or "1." list items
// without their markers.
func ExtractBullets(text string, max int) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue
		case bulletRe.MatchString(line):
			out = append(out, bulletRe.ReplaceAllString(line, ""))
		case numberedRe.MatchString(line):
			out = append(out, numberedRe.ReplaceAllString(line, ""))
		}
		if len(out) >= max {
			break
		}
	}
	return out
}

type Checkpoint struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Phase      int    `json:"phase"`
	TargetDate string `json:"target_date"`
	Completed  bool   `json:"completed"`
}

func sortedPhases(weeks map[int]int) []int {
	phases := make([]int, 0, len(weeks))
	for p := range weeks {
		phases = append(phases, p)
	}
	sort.Ints(phases)
	return phases
}

// BuildCheckpoints lays phases end to end from start: a start and complete
// checkpoint per phase plus a midpoint for phases longer than two weeks.
func BuildCheckpoints(weeks map[int]int, start time.Time) []Checkpoint {
	const day = 24 * time.Hour
	var out []Checkpoint
	cur := start
	for _, p := range sortedPhases(weeks) {
		w := weeks[p]
		label := fmt.Sprintf("Phase %d", p)
		out = append(out, Checkpoint{
			ID: fmt.Sprintf("phase%d_start", p), Label: label + " Start",
			Phase: p, TargetDate: cur.Format("2006-01-02"),
		})
		if w > 2 {
			mid := cur.Add(time.Duration(float64(w) / 2 * 7 * float64(day)))
			out = append(out, Checkpoint{
				ID: fmt.Sprintf("phase%d_mid", p), Label: label + " Midpoint",
				Phase: p, TargetDate: mid.Format("2006-01-02"),
			})
		}
		end := cur.Add(time.Duration(w) * 7 * day)
		out = append(out, Checkpoint{
			ID: fmt.Sprintf("phase%d_end", p), Label: label + " Complete",
			Phase: p, TargetDate: end.Format("2006-01-02"),
		})
		cur = end
	}
	return out
}

// SyncPhase marks every checkpoint of phase as done or not done.
func SyncPhase(cps []Checkpoint, phase int, done bool) {
	for i := range cps {
		if cps[i].Phase == phase {
			cps[i].Completed = done
		}
	}
}

// WeightedCompletion is the share of plan weeks whose phase is done, in
// percent with one decimal.
func WeightedCompletion(weeks map[int]int, done map[int]bool) float64 {
	total, acc := 0, 0
	for p, w := range weeks {
		total += w
		if done[p] {
			acc += w
		}
	}
	if total == 0 {
		return 0
	}
	return float64(int(float64(acc)/float64(total)*1000+0.5)) / 10
}

// CheckpointCompletion is the share of completed checkpoints in percent.
func CheckpointCompletion(cps []Checkpoint) float64 {
	if len(cps) == 0 {
		return 0
	}
	n := 0
	for _, c := range cps {
		if c.Completed {
			n++
		}
	}
	return float64(int(float64(n)/float64(len(cps))*1000+0.5)) / 10
}
