package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"gorm.io/gorm"
)

// Booking is a session joined with the mentor's name.
type Booking struct {
	models.Session `gorm:"embedded"`
	MentorName     string `json:"mentor_name"`
}

func (s *Service) bookings(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("sessions").
		Select("sessions.*, users.name AS mentor_name").
		Joins("LEFT JOIN users ON users.id = sessions.mentor_id")
}

// Pending lists requests waiting for the mentor, newest first.
func (s *Service) Pending(ctx context.Context, mentorEmail string) ([]Booking, error) {
	var out []Booking
	err := s.bookings(ctx).
		Where("sessions.mentor_email = ? AND sessions.status = ?", normEmail(mentorEmail), models.SessionRequested).
		Order("sessions.created_at DESC, sessions.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("pending sessions: %w", err)
	}
	return out, nil
}

// AsMentee lists every session the user booked, newest first.
func (s *Service) AsMentee(ctx context.Context, menteeEmail string) ([]Booking, error) {
	s.completeBestEffort(ctx)
	var out []Booking
	err := s.bookings(ctx).
		Where("sessions.mentee_email = ?", normEmail(menteeEmail)).
		Order("sessions.created_at DESC, sessions.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("mentee sessions: %w", err)
	}
	return out, nil
}

// MeetingsIn returns sessions where email is mentee or mentor. With days
// nil it lists upcoming sessions; otherwise the sessions on the UTC day
// today+days (negative days look back).
func (s *Service) MeetingsIn(ctx context.Context, email string, days *int) ([]Booking, error) {
	s.completeBestEffort(ctx)
	e := normEmail(email)
	now := s.now().UTC()

	q := s.bookings(ctx).Where("(sessions.mentee_email = ? OR sessions.mentor_email = ?)", e, e)
	if days == nil {
		q = q.Where("sessions.start_utc >= ?", now)
	} else {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, *days)
		q = q.Where("sessions.start_utc >= ? AND sessions.start_utc < ?", day, day.AddDate(0, 0, 1))
	}

	var out []Booking
	if err := q.Order("sessions.start_utc ASC").Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("meetings: %w", err)
	}
	return out, nil
}

// FormatBookings renders bookings as the Markdown list used in chat.
func FormatBookings(list []Booking) string {
	if len(list) == 0 {
		return "📭 No bookings found."
	}
	lines := []string{"### 📅 Your Bookings:"}
	for _, b := range list {
		name := b.MentorName
		if name == "" {
			name = b.MentorEmail
		}
		lines = append(lines, fmt.Sprintf(
			"- **Mentor:** %s  \n  **Date:** %s  \n  **Time:** %s → %s  \n  **Location:** %s  \n  **Status:** %s",
			name,
			b.StartAt.UTC().Format("2006-01-02"),
			b.StartAt.UTC().Format("15:04"),
			b.EndAt.UTC().Format("15:04"),
			b.Location,
			b.Status,
		))
	}
	return strings.Join(lines, "\n\n")
}
