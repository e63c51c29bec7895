package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestAutoMigrate_SeedsCategoriesOnce(t *testing.T) {
	db := openTestDB(t)
	// second run must not duplicate the seed rows
	require.NoError(t, AutoMigrate(db))

	var names []string
	require.NoError(t, db.Model(&models.Category{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"hr", "it", "ops"}, names)
}

func TestEnsureRewards_OnlyMentorsOnce(t *testing.T) {
	db := openTestDB(t)
	users := []models.User{
		{ID: 1, Name: "Ana", Email: "ana@corp.com", MonthsExperience: 48, IsMentor: true},
		{ID: 2, Name: "Ben", Email: "ben@corp.com", MonthsExperience: 6},
		{ID: 3, Name: "Cy", Email: "cy@corp.com", MonthsExperience: 30, IsMentor: true},
	}
	require.NoError(t, db.Create(&users).Error)

	n, err := EnsureRewards(db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = EnsureRewards(db)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	var rewards []models.Reward
	require.NoError(t, db.Order("mentor_id").Find(&rewards).Error)
	require.Len(t, rewards, 2)
	assert.Equal(t, uint(1), rewards[0].MentorID)
	assert.Equal(t, 0, rewards[0].PointsTotal)
}

func TestDSN(t *testing.T) {
	cfg := withDefaults(config.DatabaseConfig{Path: "data/app.db", JournalMode: "wal"})
	assert.Equal(t, "data/app.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", DSN(cfg))

	cfg.Path = "file:app.db?cache=shared"
	assert.True(t, strings.HasPrefix(DSN(cfg), "file:app.db?cache=shared&_busy_timeout="))
}

func TestInit_AppliesPragmasToEveryConnection(t *testing.T) {
	db, err := Init(config.DatabaseConfig{
		Path:          filepath.Join(t.TempDir(), "pragma.db"),
		MaxOpenConns:  2,
		BusyTimeoutMS: 1234,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	assert.Equal(t, 2, sqlDB.Stats().MaxOpenConnections)

	ctx := context.Background()
	c1, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer c1.Close()
	c2, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer c2.Close()

	for _, c := range []*sql.Conn{c1, c2} {
		var fk, busy int
		var mode string
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy))
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, 1, fk)
		assert.Equal(t, 1234, busy)
		assert.Equal(t, "wal", mode)
	}
}
