package database

import (
	"fmt"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCategories are the ticket categories every install starts with.
var DefaultCategories = []models.Category{
	{Name: "it", Label: "IT", DefaultTeam: "Helpdesk"},
	{Name: "hr", Label: "Human Resources", DefaultTeam: "People Ops"},
	{Name: "ops", Label: "Operations", DefaultTeam: "Ops"},
}

// SeedCategories inserts the default ticket categories if missing.
func SeedCategories(db *gorm.DB) error {
	for _, def := range DefaultCategories {
		c := def
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}
	return nil
}

// EnsureRewards gives every mentor without a rewards row a zero balance.
func EnsureRewards(db *gorm.DB) (int64, error) {
	res := db.Exec(`INSERT INTO rewards (mentor_id, points_total, last_updated)
		SELECT id, 0, CURRENT_TIMESTAMP FROM users
		WHERE is_mentor = 1 AND id NOT IN (SELECT mentor_id FROM rewards)`)
	if res.Error != nil {
		return 0, fmt.Errorf("init rewards: %w", res.Error)
	}
	return res.RowsAffected, nil
}
