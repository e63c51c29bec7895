package database

import (
	"fmt"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Session{},
		&models.Notification{},
		&models.ChatMessage{},
		&models.Ticket{},
		&models.Category{},
		&models.Feedback{},
		&models.Reward{},
		&models.AuditLog{},
		&models.Progress{},
		&models.LearningPlan{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := SeedCategories(db); err != nil {
		return err
	}
	return nil
}
