package models

import "time"

const (
	SessionRequested = "requested"
	SessionApproved  = "approved"
	SessionBooked    = "booked"
	SessionCancelled = "cancelled"
	SessionCompleted = "completed"
)

// Session is a mentorship meeting between a mentee and a mentor.
// GraphEventID keeps the path of the generated ICS invite.
type Session struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MenteeEmail  string    `gorm:"size:255;index;not null" json:"mentee_email"`
	MentorEmail  string    `gorm:"size:255;index;not null" json:"mentor_email"`
	MentorID     uint      `gorm:"index;not null" json:"mentor_id"`
	Status       string    `gorm:"size:16;index;not null" json:"status"`
	StartAt      time.Time `gorm:"column:start_utc;index" json:"start_utc"`
	EndAt        time.Time `gorm:"column:end_utc;index" json:"end_utc"`
	Location     string    `gorm:"size:128" json:"location"`
	GraphEventID string    `gorm:"size:512" json:"graph_event_id"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
