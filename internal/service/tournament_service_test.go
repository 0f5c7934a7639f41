package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/club-brackets/internal/bracket"
	"github.com/AdamBeresnev/club-brackets/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTournament_DoubleElimination(t *testing.T) {
	_, tournamentService, _ := setupServices(t)
	ctx := context.Background()

	id, err := tournamentService.CreateTournament(ctx, " Friday Night ", bracket.DoubleElimination, numberedEntries(5))
	require.NoError(t, err)

	data, err := tournamentService.GetTournamentData(ctx, id.String())
	require.NoError(t, err)

	assert.Equal(t, "Friday Night", data.Tournament.Name)
	assert.Equal(t, bracket.TournamentStarted, data.Tournament.Status)
	assert.Equal(t, 16, data.Tournament.BracketSize)
	assert.Len(t, data.Entries, 5)
	assert.Len(t, data.Matches, 31)
	assert.Empty(t, data.Pairings)

	for i, e := range data.Entries {
		assert.Equal(t, i+1, e.Seed)
	}

	// Byes were cascaded before saving, so a real match is ready to play
	require.NotNil(t, data.NextMatchID)
	for _, m := range data.Matches {
		if m.ID == *data.NextMatchID {
			assert.True(t, m.HasBothPlayers())
			assert.Equal(t, bracket.MatchPending, m.Status)
		}
		if m.BracketType == bracket.Winners && m.Round == 1 {
			assert.True(t, m.IsResolved(), "all round 1 matches are byes with 5 entries")
		}
	}
}

func TestCreateTournament_RoundRobin(t *testing.T) {
	_, tournamentService, _ := setupServices(t)
	ctx := context.Background()

	id, err := tournamentService.CreateTournament(ctx, "League", bracket.RoundRobin, numberedEntries(5))
	require.NoError(t, err)

	data, err := tournamentService.GetTournamentData(ctx, id.String())
	require.NoError(t, err)

	assert.Equal(t, 0, data.Tournament.BracketSize)
	assert.Empty(t, data.Matches)
	require.Len(t, data.Pairings, 15)

	var real, byes int
	for _, p := range data.Pairings {
		if p.IsBye {
			byes++
			assert.Equal(t, bracket.MatchSkipped, p.Status)
			assert.Nil(t, p.PlayerB)
			continue
		}
		real++
	}
	assert.Equal(t, 10, real)
	assert.Equal(t, 5, byes)
	// Seed 1 sits out the first round, so the next pairing is the second one
	require.True(t, data.Pairings[0].IsBye)
	require.NotNil(t, data.NextMatchID)
	assert.Equal(t, data.Pairings[1].ID, *data.NextMatchID)
}

func TestCreateTournament_Invalid(t *testing.T) {
	_, tournamentService, _ := setupServices(t)

	testCases := []struct {
		name    string
		tName   string
		format  bracket.Format
		entries []EntryInput
		cause   error
	}{
		{name: "missing name", tName: "  ", format: bracket.RoundRobin, entries: numberedEntries(4)},
		{name: "unknown format", tName: "Cup", format: "swiss", entries: numberedEntries(4)},
		{name: "round robin needs two", tName: "Cup", format: bracket.RoundRobin, entries: numberedEntries(1), cause: bracket.ErrTooFewParticipants},
		{name: "double elimination needs two", tName: "Cup", format: bracket.DoubleElimination, entries: nil, cause: bracket.ErrTooFewParticipants},
		{name: "round robin caps its field", tName: "Cup", format: bracket.RoundRobin, entries: numberedEntries(bracket.MaxRoundRobinParticipants + 1), cause: bracket.ErrRoundRobinTooLarge},
		{name: "blank entry name", tName: "Cup", format: bracket.RoundRobin, entries: entryInputs("Alice", "  ", "Carol")},
		{name: "double elimination caps at 16", tName: "Cup", format: bracket.DoubleElimination, entries: numberedEntries(17), cause: bracket.ErrTooManyParticipants},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tournamentService.CreateTournament(context.Background(), tc.tName, tc.format, tc.entries)
			assert.ErrorIs(t, err, ErrInvalidTournament)
			if tc.cause != nil {
				assert.ErrorIs(t, err, tc.cause)
			}
		})
	}

	all, err := tournamentService.GetTournamentsByStatus(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all, "failed creations must not leave rows behind")
}

func TestGetTournamentData_NotFound(t *testing.T) {
	_, tournamentService, _ := setupServices(t)

	_, err := tournamentService.GetTournamentData(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetTournamentsByStatus(t *testing.T) {
	_, tournamentService, _ := setupServices(t)
	ctx := context.Background()

	_, err := tournamentService.CreateTournament(ctx, "League", bracket.RoundRobin, numberedEntries(3))
	require.NoError(t, err)

	started, err := tournamentService.GetTournamentsByStatus(ctx, "started")
	require.NoError(t, err)
	assert.Len(t, started, 1)

	completed, err := tournamentService.GetTournamentsByStatus(ctx, "completed")
	require.NoError(t, err)
	assert.Empty(t, completed)

	_, err = tournamentService.GetTournamentsByStatus(ctx, "paused")
	assert.ErrorIs(t, err, ErrInvalidTournament)
}
