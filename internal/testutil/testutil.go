// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/database"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database in a temp dir, closed on cleanup.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("init test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedUsers inserts a small org: two mentors, one junior and one mentor
// from another team.
func SeedUsers(t testing.TB, db *gorm.DB) []models.User {
	t.Helper()
	users := []models.User{
		{ID: 1, Name: "Asha Rao", Email: "asha@corp.com", Position: "Data Scientist", Department: "Analytics",
			Team: "ML Platform", Skills: "Python, Machine Learning, SQL", MonthsExperience: 60, IsMentor: true},
		{ID: 2, Name: "Ben Ode", Email: "ben@corp.com", Position: "Backend Engineer", Department: "Engineering",
			Team: "Payments", Skills: "Go, Kubernetes, PostgreSQL", MonthsExperience: 36, IsMentor: true},
		{ID: 3, Name: "Cleo Ng", Email: "cleo@corp.com", Position: "Junior Analyst", Department: "Analytics",
			Team: "BI", Skills: "Excel, SQL", MonthsExperience: 6},
		{ID: 4, Name: "Dev Iyer", Email: "dev@corp.com", Position: "SAP BTP Consultant", Department: "Consulting",
			Team: "Cloud", Skills: "SAP BTP, CAP, Fiori", MonthsExperience: 25, IsMentor: true},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}
	return users
}
