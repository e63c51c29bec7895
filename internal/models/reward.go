package models

import "time"

type Reward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MentorID    uint      `gorm:"uniqueIndex;not null" json:"mentor_id"`
	PointsTotal int       `gorm:"default:0" json:"points_total"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}
