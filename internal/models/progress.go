package models

import "time"

const (
	ProgressModule   = "module"
	ProgressSoftware = "software"
	ProgressDocument = "document"
)

// Progress is a per (user, item) completion flag. ItemKey is the lower-cased
// item so upserts are case-insensitive while Item keeps the display text.
type Progress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:16;not null;uniqueIndex:idx_progress_item" json:"kind"`
	UserEmail string    `gorm:"size:255;not null;uniqueIndex:idx_progress_item" json:"user_email"`
	ItemKey   string    `gorm:"size:255;not null;uniqueIndex:idx_progress_item" json:"-"`
	Item      string    `gorm:"size:255;not null" json:"item"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Progress) TableName() string { return "onboarding_progress" }
