package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AdamBeresnev/club-brackets/internal/bracket"
	"github.com/AdamBeresnev/club-brackets/internal/progression"
	"github.com/AdamBeresnev/club-brackets/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore) *TournamentService {
	return &TournamentService{db: db, store: store}
}

// TournamentData is everything needed to show a tournament. NextMatchID is
// the first match or pairing that can be reported right now.
type TournamentData struct {
	Tournament  *bracket.Tournament     `json:"tournament"`
	Entries     []bracket.Entry         `json:"entries"`
	Matches     []bracket.MatchRecord   `json:"matches"`
	Pairings    []bracket.PairingRecord `json:"pairings"`
	NextMatchID *uuid.UUID              `json:"nextMatchId"`
}

func (s *TournamentService) GetTournamentData(ctx context.Context, id string) (*TournamentData, error) {
	data := &TournamentData{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tournament, err := s.store.GetTournament(gctx, id)
		data.Tournament = tournament
		return err
	})
	g.Go(func() error {
		entries, err := s.store.GetEntries(gctx, id)
		data.Entries = entries
		return err
	})
	g.Go(func() error {
		matches, err := s.store.GetMatches(gctx, id)
		data.Matches = matches
		return err
	})
	g.Go(func() error {
		pairings, err := s.store.GetPairings(gctx, id)
		data.Pairings = pairings
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, m := range data.Matches {
		if m.Status == bracket.MatchPending && m.HasBothPlayers() {
			id := m.ID
			data.NextMatchID = &id
			break
		}
	}
	if data.NextMatchID == nil {
		for _, p := range data.Pairings {
			if p.Status == bracket.MatchPending {
				id := p.ID
				data.NextMatchID = &id
				break
			}
		}
	}

	return data, nil
}

// GetTournamentsByStatus lists tournaments, all of them when status is empty.
func (s *TournamentService) GetTournamentsByStatus(ctx context.Context, status string) ([]bracket.Tournament, error) {
	st := bracket.TournamentStatus(status)
	switch st {
	case "", bracket.TournamentDraft, bracket.TournamentStarted, bracket.TournamentCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTournament, status)
	}
	return s.store.GetTournaments(ctx, st)
}

// CreateTournament stores the tournament, its entries in seed order and the
// full schedule for its format in one transaction.
func (s *TournamentService) CreateTournament(ctx context.Context, name string, format bracket.Format, entryInputs []EntryInput) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("%w: name is required", ErrInvalidTournament)
	}
	if !format.Valid() {
		return uuid.Nil, fmt.Errorf("%w: unknown format %q", ErrInvalidTournament, format)
	}

	for i, input := range entryInputs {
		if strings.TrimSpace(input.Name) == "" {
			return uuid.Nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidTournament, i+1)
		}
	}

	tournamentID := uuid.New()
	tournament := bracket.Tournament{
		ID:          tournamentID,
		Name:        name,
		Status:      bracket.TournamentStarted,
		Format:      format,
	}

	var matches []bracket.MatchRecord
	var pairings []bracket.PairingRecord

	switch format {
	case bracket.RoundRobin:
		schedule, err := bracket.RoundRobinPairings(len(entryInputs))
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidTournament, err)
		}
		pairings = pairingRecords(tournamentID, schedule)
	case bracket.DoubleElimination:
		structure, err := bracket.DoubleEliminationStructure(len(entryInputs))
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidTournament, err)
		}
		tournament.BracketSize = structure.BracketSize

		b, err := progression.New(structure.BracketSize, structure.Matches)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to wire bracket: %w", err)
		}
		b.ResolveByes()

		for _, m := range b.Matches() {
			matches = append(matches, bracket.MatchRecord{ID: uuid.New(), TournamentID: tournamentID, Match: m})
		}
	}

	entries := make([]bracket.Entry, 0, len(entryInputs))
	for i, input := range entryInputs {
		entries = append(entries, bracket.Entry{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Name:         strings.TrimSpace(input.Name),
			Seed:         i + 1,
		})
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	if err := s.store.CreateEntries(ctx, tx, entries); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create entries: %w", err)
	}
	if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create matches: %w", err)
	}
	if err := s.store.CreatePairings(ctx, tx, pairings); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create pairings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	slog.Info("tournament created", "id", tournamentID, "format", format, "entries", len(entries))
	return tournamentID, nil
}

func pairingRecords(tournamentID uuid.UUID, schedule *bracket.RoundRobinSchedule) []bracket.PairingRecord {
	records := make([]bracket.PairingRecord, 0, schedule.TotalMatches)
	for r, round := range schedule.Rounds {
		for i, p := range round {
			status := bracket.MatchPending
			if p.IsBye {
				status = bracket.MatchSkipped
			}
			records = append(records, bracket.PairingRecord{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				Round:        r + 1,
				Position:     i + 1,
				PlayerA:      p.A,
				PlayerB:      p.B,
				IsBye:        p.IsBye,
				Status:       status,
			})
		}
	}
	return records
}
