package service

import (
	"fmt"
	"testing"

	"github.com/AdamBeresnev/club-brackets/internal/db"
	"github.com/AdamBeresnev/club-brackets/internal/store"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Connect(db.DriverSQLite, "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	require.NoError(t, db.RunMigrations(database), "Failed to apply migrations")

	t.Cleanup(func() { database.Close() })
	return database
}

func setupServices(t *testing.T) (*store.TournamentStore, *TournamentService, *MatchService) {
	t.Helper()

	database := setupTestDB(t)
	tournamentStore := store.NewTournamentStore(database)
	return tournamentStore, NewTournamentService(database, tournamentStore), NewMatchService(database, tournamentStore)
}

func entryInputs(names ...string) []EntryInput {
	inputs := make([]EntryInput, len(names))
	for i, name := range names {
		inputs[i] = EntryInput{Name: name}
	}
	return inputs
}

func numberedEntries(n int) []EntryInput {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Player %d", i+1)
	}
	return entryInputs(names...)
}
