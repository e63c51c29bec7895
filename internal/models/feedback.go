package models

import "time"

// Feedback is a mentee's takeaway after a session.
type Feedback struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   uint      `gorm:"index" json:"session_id"`
	MenteeEmail string    `gorm:"size:255;index;not null" json:"mentee_email"`
	MentorEmail string    `gorm:"size:255" json:"mentor_email"`
	Rating      int       `json:"rating"`
	Takeaway    string    `gorm:"type:text" json:"takeaway"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }
