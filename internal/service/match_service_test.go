package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/AdamBeresnev/club-brackets/internal/bracket"
	"github.com/AdamBeresnev/club-brackets/internal/progression"
	"github.com/AdamBeresnev/club-brackets/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMatch(t *testing.T, data *TournamentData, id uuid.UUID) bracket.MatchRecord {
	t.Helper()
	for _, m := range data.Matches {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("match %s not found", id)
	return bracket.MatchRecord{}
}

func TestReportResult_PlaysToChampion(t *testing.T) {
	_, tournamentService, matchService := setupServices(t)
	ctx := context.Background()

	id, err := tournamentService.CreateTournament(ctx, "Cup", bracket.DoubleElimination, numberedEntries(6))
	require.NoError(t, err)

	var last *MatchResult
	for i := 0; i < 31; i++ {
		data, err := tournamentService.GetTournamentData(ctx, id.String())
		require.NoError(t, err)
		if data.NextMatchID == nil {
			break
		}

		m := findMatch(t, data, *data.NextMatchID)
		winner := min(*m.PlayerA, *m.PlayerB)

		last, err = matchService.ReportResult(ctx, m.ID, data.Entries[winner].ID)
		require.NoError(t, err)
		assert.NotEmpty(t, last.Changed)
	}

	require.NotNil(t, last)
	assert.Equal(t, 0, *last.ChampionID)

	data, err := tournamentService.GetTournamentData(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentCompleted, data.Tournament.Status)
	assert.Equal(t, 0, *data.Tournament.ChampionID)
	assert.Nil(t, data.NextMatchID)
	for _, m := range data.Matches {
		assert.True(t, m.IsResolved())
	}
}

func TestReportResult_RoutesLoser(t *testing.T) {
	_, tournamentService, matchService := setupServices(t)
	ctx := context.Background()

	id, err := tournamentService.CreateTournament(ctx, "Cup", bracket.DoubleElimination, numberedEntries(16))
	require.NoError(t, err)

	data, err := tournamentService.GetTournamentData(ctx, id.String())
	require.NoError(t, err)

	// Seed 1 against seed 16 opens the winners bracket
	first := data.Matches[0]
	require.Equal(t, 0, *first.PlayerA)
	require.Equal(t, 15, *first.PlayerB)

	result, err := matchService.ReportResult(ctx, first.ID, data.Entries[0].ID)
	require.NoError(t, err)
	require.Len(t, result.Changed, 3)
	assert.Nil(t, result.ChampionID)

	var sawLoser bool
	for _, m := range result.Changed {
		if m.BracketType == bracket.Losers {
			sawLoser = true
			assert.Equal(t, 1, m.Round)
			assert.Equal(t, 15, *m.PlayerA)
		}
	}
	assert.True(t, sawLoser)
}

func TestReportResult_Errors(t *testing.T) {
	_, tournamentService, matchService := setupServices(t)
	ctx := context.Background()

	id, err := tournamentService.CreateTournament(ctx, "Cup", bracket.DoubleElimination, numberedEntries(16))
	require.NoError(t, err)
	otherID, err := tournamentService.CreateTournament(ctx, "Other", bracket.DoubleElimination, numberedEntries(2))
	require.NoError(t, err)

	data, err := tournamentService.GetTournamentData(ctx, id.String())
	require.NoError(t, err)
	other, err := tournamentService.GetTournamentData(ctx, otherID.String())
	require.NoError(t, err)

	first := data.Matches[0]
	notReady := data.Matches[8]
	require.Equal(t, 2, notReady.Round)

	_, err = matchService.ReportResult(ctx, uuid.New(), data.Entries[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = matchService.ReportResult(ctx, first.ID, data.Entries[3].ID)
	assert.ErrorIs(t, err, progression.ErrWinnerNotInMatch)

	_, err = matchService.ReportResult(ctx, first.ID, other.Entries[0].ID)
	assert.ErrorIs(t, err, progression.ErrWinnerNotInMatch)

	_, err = matchService.ReportResult(ctx, notReady.ID, data.Entries[0].ID)
	assert.ErrorIs(t, err, progression.ErrMatchNotReady)

	_, err = matchService.ReportResult(ctx, first.ID, data.Entries[0].ID)
	require.NoError(t, err)
	_, err = matchService.ReportResult(ctx, first.ID, data.Entries[15].ID)
	assert.ErrorIs(t, err, progression.ErrMatchAlreadyDecided)
}

func TestReportResult_ConcurrentReportsApplyOnce(t *testing.T) {
	_, tournamentService, matchService := setupServices(t)
	ctx := context.Background()

	id, err := tournamentService.CreateTournament(ctx, "Cup", bracket.DoubleElimination, numberedEntries(16))
	require.NoError(t, err)
	data, err := tournamentService.GetTournamentData(ctx, id.String())
	require.NoError(t, err)

	first := data.Matches[0]
	winners := []uuid.UUID{data.Entries[0].ID, data.Entries[15].ID}

	var wg sync.WaitGroup
	errs := make([]error, len(winners))
	for i, winner := range winners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = matchService.ReportResult(ctx, first.ID, winner)
		}()
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, progression.ErrMatchAlreadyDecided), err.Error())
	}
	assert.Equal(t, 1, succeeded)
}

func TestReportPairingResult(t *testing.T) {
	_, tournamentService, matchService := setupServices(t)
	ctx := context.Background()

	id, err := tournamentService.CreateTournament(ctx, "League", bracket.RoundRobin, numberedEntries(3))
	require.NoError(t, err)
	data, err := tournamentService.GetTournamentData(ctx, id.String())
	require.NoError(t, err)

	_, err = matchService.ReportResult(ctx, data.Pairings[0].ID, data.Entries[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "pairings are not double elimination matches")

	var reported int
	for _, p := range data.Pairings {
		if p.IsBye {
			_, err := matchService.ReportPairingResult(ctx, p.ID, data.Entries[p.PlayerA].ID)
			assert.ErrorIs(t, err, progression.ErrMatchNotReady)
			continue
		}

		outsider := 3 - p.PlayerA - *p.PlayerB
		_, err := matchService.ReportPairingResult(ctx, p.ID, data.Entries[outsider].ID)
		assert.ErrorIs(t, err, progression.ErrWinnerNotInMatch)

		updated, err := matchService.ReportPairingResult(ctx, p.ID, data.Entries[*p.PlayerB].ID)
		require.NoError(t, err)
		assert.Equal(t, bracket.MatchCompleted, updated.Status)
		assert.Equal(t, *p.PlayerB, *updated.WinnerID)
		reported++

		_, err = matchService.ReportPairingResult(ctx, p.ID, data.Entries[p.PlayerA].ID)
		assert.ErrorIs(t, err, progression.ErrMatchAlreadyDecided)
	}
	assert.Equal(t, 3, reported)

	data, err = tournamentService.GetTournamentData(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentCompleted, data.Tournament.Status)
	assert.Nil(t, data.Tournament.ChampionID)
	assert.Nil(t, data.NextMatchID)
}
