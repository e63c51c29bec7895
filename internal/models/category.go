package models

import "time"

// Category groups tickets (it / hr / ops ...).
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;uniqueIndex;not null" json:"key"`
	Label       string    `gorm:"size:128" json:"label"`
	DefaultTeam string    `gorm:"size:128" json:"default_team"`
	CreatedAt   time.Time `json:"created_at"`
}
