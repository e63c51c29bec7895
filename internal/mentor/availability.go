package mentor

import (
	"context"
	"strings"
	"time"
)

// Slot is a proposed meeting window in UTC.
type Slot struct {
	Start time.Time `json:"start_utc"`
	End   time.Time `json:"end_utc"`
}

func (s Slot) String() string {
	const layout = "2006-01-02T15:04Z"
	return s.Start.UTC().Format(layout) + " → " + s.End.UTC().Format(layout)
}

// AvailabilitySlots proposes n windows of the given length for a mentor.
// Slots start from tomorrow 09:00 UTC, shifted by a per-email seed so
// mentors do not all offer the same days.
func AvailabilitySlots(email string, n, minutes int, now time.Time) []Slot {
	if n <= 0 {
		n = 3
	}
	if minutes <= 0 {
		minutes = 30
	}
	now = now.UTC()
	tomorrow := now.AddDate(0, 0, 1)
	base := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.UTC)

	seed := 0
	for _, r := range strings.ToLower(email) {
		seed += int(r)
	}
	seed %= 5

	slots := make([]Slot, 0, n)
	for i := 0; i < n; i++ {
		start := base.AddDate(0, 0, seed+i).Add(time.Duration((i*2)%5) * time.Hour)
		slots = append(slots, Slot{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)})
	}
	return slots
}

// SearchWithAvailability is Search with three proposed slots per mentor.
func (s *Service) SearchWithAvailability(ctx context.Context, query string, now time.Time) ([]Match, error) {
	matches, err := s.Search(ctx, query, 0, 0)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i].Availability = AvailabilitySlots(matches[i].Email, 3, 30, now)
	}
	return matches, nil
}
