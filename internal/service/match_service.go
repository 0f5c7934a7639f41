package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AdamBeresnev/club-brackets/internal/bracket"
	"github.com/AdamBeresnev/club-brackets/internal/progression"
	"github.com/AdamBeresnev/club-brackets/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	db    *sqlx.DB
	store *store.TournamentStore

	// One lock per tournament so two reports never race on the same bracket
	locks sync.Map
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore) *MatchService {
	return &MatchService{db: db, store: store}
}

func (s *MatchService) lock(tournamentID uuid.UUID) func() {
	mu, _ := s.locks.LoadOrStore(tournamentID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

type MatchResult struct {
	TournamentID uuid.UUID             `json:"tournamentId"`
	Changed      []bracket.MatchRecord `json:"changed"`
	ChampionID   *int                  `json:"championId"`
}

// winnerIndex resolves an entry to its player index within the tournament.
func (s *MatchService) winnerIndex(ctx context.Context, tournamentID, winnerEntryID uuid.UUID) (int, error) {
	entry, err := s.store.GetEntry(ctx, winnerEntryID.String())
	if err != nil {
		return 0, fmt.Errorf("failed to get winner entry: %w", err)
	}
	if entry.TournamentID != tournamentID {
		return 0, fmt.Errorf("entry %s: %w", winnerEntryID, progression.ErrWinnerNotInMatch)
	}
	return entry.PlayerIndex(), nil
}

// ReportResult records the winner of a double elimination match, moves both
// players on and cascades any byes that opens up. The tournament is marked
// completed once a champion exists.
func (s *MatchService) ReportResult(ctx context.Context, matchID, winnerEntryID uuid.UUID) (*MatchResult, error) {
	match, err := s.store.GetMatch(ctx, matchID.String())
	if err != nil {
		return nil, err
	}

	tournament, err := s.store.GetTournament(ctx, match.TournamentID.String())
	if err != nil {
		return nil, err
	}
	if tournament.Format != bracket.DoubleElimination {
		return nil, ErrWrongFormat
	}

	winner, err := s.winnerIndex(ctx, tournament.ID, winnerEntryID)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(tournament.ID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	records, err := s.store.GetMatchesTx(ctx, tx, tournament.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	matches := make([]bracket.Match, len(records))
	byKey := make(map[progression.Key]*bracket.MatchRecord, len(records))
	for i := range records {
		matches[i] = records[i].Match
		byKey[progression.KeyOf(records[i].Match)] = &records[i]
	}

	b, err := progression.New(tournament.BracketSize, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket: %w", err)
	}

	if err := b.Record(progression.KeyOf(match.Match), winner); err != nil {
		return nil, err
	}

	result := &MatchResult{TournamentID: tournament.ID}
	for _, m := range b.Changed() {
		record := byKey[progression.KeyOf(m)]
		record.Match = m
		if err := s.store.UpdateMatch(ctx, tx, record); err != nil {
			return nil, fmt.Errorf("failed to update match %s: %w", progression.KeyOf(m), err)
		}
		result.Changed = append(result.Changed, *record)
	}

	if champion, ok := b.Champion(); ok {
		result.ChampionID = &champion
		if err := s.store.UpdateTournamentStatusTx(ctx, tx, tournament.ID.String(), bracket.TournamentCompleted, &champion); err != nil {
			return nil, fmt.Errorf("failed to update tournament status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	slog.Info("match reported", "tournament", tournament.ID, "match", progression.KeyOf(match.Match).String(), "changed", len(result.Changed))
	return result, nil
}

// ReportPairingResult records the winner of a round robin pairing. The
// tournament is completed when no pairing is left open.
func (s *MatchService) ReportPairingResult(ctx context.Context, pairingID, winnerEntryID uuid.UUID) (*bracket.PairingRecord, error) {
	pairing, err := s.store.GetPairing(ctx, pairingID.String())
	if err != nil {
		return nil, err
	}

	winner, err := s.winnerIndex(ctx, pairing.TournamentID, winnerEntryID)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(pairing.TournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pairing, err = s.store.GetPairingTx(ctx, tx, pairingID.String())
	if err != nil {
		return nil, err
	}

	switch {
	case pairing.IsBye:
		return nil, fmt.Errorf("pairing is a bye: %w", progression.ErrMatchNotReady)
	case pairing.Status != bracket.MatchPending:
		return nil, progression.ErrMatchAlreadyDecided
	case !pairing.HasPlayer(winner):
		return nil, progression.ErrWinnerNotInMatch
	}

	pairing.Status = bracket.MatchCompleted
	pairing.WinnerID = &winner
	if err := s.store.UpdatePairing(ctx, tx, pairing); err != nil {
		return nil, fmt.Errorf("failed to update pairing: %w", err)
	}

	open, err := s.store.CountOpenPairingsTx(ctx, tx, pairing.TournamentID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to count open pairings: %w", err)
	}
	if open == 0 {
		if err := s.store.UpdateTournamentStatusTx(ctx, tx, pairing.TournamentID.String(), bracket.TournamentCompleted, nil); err != nil {
			return nil, fmt.Errorf("failed to update tournament status: %w", err)
		}
	}

	return pairing, tx.Commit()
}
