package testutil

import (
	"testing"
	"time"

	"ai-studio-be/internal/model"
	"ai-studio-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory database that lives for the duration of t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedUser inserts a user row with the given balances.
func SeedUser(t *testing.T, db *gorm.DB, userId string, credits, promptCredits int) {
	t.Helper()

	require.NoError(t, db.Exec(
		"INSERT INTO users (id, user_id, credits, prompt_wizard_credits, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.NewString(), userId, credits, promptCredits, time.Now(), time.Now(),
	).Error)
}
