package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/memorymatch/internal/db"
	"github.com/vytor/memorymatch/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is kept so every query sees the same in-memory schema.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertUser stores a minimal active user and returns its id.
func InsertUser(t *testing.T, sqlDB *sql.DB, username string) int64 {
	res, err := sqlDB.Exec(
		`INSERT INTO users (first_name, last_name, username, password_hash, role) VALUES (?, ?, ?, ?, ?)`,
		"Test", "User", username, "x", models.RoleUser,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// ThemeID returns the id of a seeded theme by name.
func ThemeID(t *testing.T, sqlDB *sql.DB, name string) int64 {
	var id int64
	require.NoError(t, sqlDB.QueryRow(`SELECT id FROM themes WHERE name = ?`, name).Scan(&id))
	return id
}

// Score builds a score played the given duration before now.
func Score(userID, themeID int64, attempts, seconds int, ago time.Duration) models.Score {
	return models.Score{
		UserID:      userID,
		ThemeID:     themeID,
		Attempts:    attempts,
		TimeSeconds: seconds,
		PlayedAt:    time.Now().Add(-ago).UTC(),
	}
}
