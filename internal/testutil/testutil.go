package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is used so every query sees the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertUser adds a user row and returns its id.
func InsertUser(t *testing.T, sqlDB *sql.DB, login string) int64 {
	res, err := sqlDB.Exec(`INSERT INTO users (login, email, password_hash) VALUES (?, ?, ?)`,
		login, login+"@example.com", "hash")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertDeck adds a deck owned by userID and returns its id.
func InsertDeck(t *testing.T, sqlDB *sql.DB, userID int64, name string) int64 {
	res, err := sqlDB.Exec(`INSERT INTO decks (user_id, name) VALUES (?, ?)`, userID, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertCard adds a card to deckID at the given position and returns its id.
func InsertCard(t *testing.T, sqlDB *sql.DB, deckID int64, question, answer string, position int) int64 {
	res, err := sqlDB.Exec(`INSERT INTO cards (deck_id, question, answer, position) VALUES (?, ?, ?, ?)`,
		deckID, question, answer, position)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
