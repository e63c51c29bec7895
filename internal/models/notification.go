package models

import "time"

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserEmail string    `gorm:"size:255;index;not null" json:"user_email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	ICSPath   string    `gorm:"size:512" json:"ics_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
