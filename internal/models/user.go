package models

import "time"

// User is an employee row imported from the HR CSV.
// ID comes from the CSV, so it is never auto-assigned.
type User struct {
	ID               uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name             string    `gorm:"size:128;not null" json:"name"`
	Email            string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Position         string    `gorm:"size:128" json:"position"`
	Department       string    `gorm:"size:128" json:"department"`
	Team             string    `gorm:"size:128" json:"team"`
	Skills           string    `gorm:"type:text" json:"skills"`
	MonthsExperience int       `gorm:"default:0;index" json:"months_experience"`
	IsMentor         bool      `gorm:"default:false;index" json:"is_mentor"`
	Chat             string    `gorm:"size:255" json:"chat"`
	Timezone         string    `gorm:"size:64" json:"timezone"`
	Topics           string    `gorm:"type:text" json:"topics"`
	OfficeHours      string    `gorm:"size:128" json:"office_hours"`
	College          string    `gorm:"size:255" json:"college"`
	Age              int       `json:"age"`
	Salary           float64   `json:"-"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// ProfileText is the text embedded for semantic mentor search.
func (u User) ProfileText() string {
	return u.Position + " | " + u.Skills + " | " + u.Team + " | " + u.Department
}
