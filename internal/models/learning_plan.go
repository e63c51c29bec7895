package models

import (
	"time"

	"gorm.io/datatypes"
)

// LearningPlan is the generated upskilling plan of a user plus its tracker
// state. PhaseWeeks, Checkpoints and PhaseDone are JSON encoded.
type LearningPlan struct {
	UserEmail   string         `gorm:"primaryKey;size:255" json:"user_email"`
	Role        string         `gorm:"size:128;not null" json:"role"`
	PlanText    string         `gorm:"type:text" json:"plan_text"`
	GapIndex    float64        `json:"gap_index"`
	PhaseWeeks  datatypes.JSON `json:"phase_weeks"`
	Checkpoints datatypes.JSON `json:"checkpoints"`
	PhaseDone   datatypes.JSON `json:"phase_done"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
