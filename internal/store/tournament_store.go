package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/club-brackets/internal/bracket"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, status, format, bracket_size)
        VALUES (:id, :name, :status, :format, :bracket_size)`, tournament)
	return err
}

func (s *TournamentStore) CreateEntries(ctx context.Context, tx *sqlx.Tx, entries []bracket.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO entries (id, tournament_id, name, seed)
            VALUES (:id, :tournament_id, :name, :seed)`, entries)
	return err
}

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.MatchRecord) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO matches (id, tournament_id, bracket_type, round_number, position, player_a, player_b, status, winner_id)
		VALUES (:id, :tournament_id, :bracket_type, :round_number, :position, :player_a, :player_b, :status, :winner_id)`, matches)
	return err
}

func (s *TournamentStore) CreatePairings(ctx context.Context, tx *sqlx.Tx, pairings []bracket.PairingRecord) error {
	if len(pairings) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO round_robin_pairings (id, tournament_id, round_number, position, player_a, player_b, is_bye, status, winner_id)
		VALUES (:id, :tournament_id, :round_number, :position, :player_a, :player_b, :is_bye, :status, :winner_id)`, pairings)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, s.db.Rebind("SELECT * FROM tournaments WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err, "tournament "+id)
	}
	return &tournament, nil
}

// GetTournaments lists tournaments newest first. An empty status lists all.
func (s *TournamentStore) GetTournaments(ctx context.Context, status bracket.TournamentStatus) ([]bracket.Tournament, error) {
	tournaments := []bracket.Tournament{}
	if status == "" {
		err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments ORDER BY created_at DESC")
		return tournaments, err
	}
	err := s.db.SelectContext(ctx, &tournaments, s.db.Rebind("SELECT * FROM tournaments WHERE status = ? ORDER BY created_at DESC"), status)
	return tournaments, err
}

func (s *TournamentStore) GetEntries(ctx context.Context, tournamentID string) ([]bracket.Entry, error) {
	entries := []bracket.Entry{}
	err := s.db.SelectContext(ctx, &entries, s.db.Rebind("SELECT * FROM entries WHERE tournament_id = ? ORDER BY seed ASC"), tournamentID)
	return entries, err
}

func (s *TournamentStore) GetEntry(ctx context.Context, id string) (*bracket.Entry, error) {
	var entry bracket.Entry
	err := s.db.GetContext(ctx, &entry, s.db.Rebind("SELECT * FROM entries WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err, "entry "+id)
	}
	return &entry, nil
}

const matchOrder = `ORDER BY CASE bracket_type
	WHEN 'winners' THEN 1 WHEN 'losers' THEN 2 WHEN 'finals' THEN 3 ELSE 4 END,
	round_number ASC, position ASC`

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID string) ([]bracket.MatchRecord, error) {
	matches := []bracket.MatchRecord{}
	err := s.db.SelectContext(ctx, &matches, s.db.Rebind("SELECT * FROM matches WHERE tournament_id = ? "+matchOrder), tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) ([]bracket.MatchRecord, error) {
	matches := []bracket.MatchRecord{}
	err := tx.SelectContext(ctx, &matches, tx.Rebind("SELECT * FROM matches WHERE tournament_id = ? "+matchOrder), tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatch(ctx context.Context, id string) (*bracket.MatchRecord, error) {
	var match bracket.MatchRecord
	err := s.db.GetContext(ctx, &match, s.db.Rebind("SELECT * FROM matches WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err, "match "+id)
	}
	return &match, nil
}

func (s *TournamentStore) GetPairings(ctx context.Context, tournamentID string) ([]bracket.PairingRecord, error) {
	pairings := []bracket.PairingRecord{}
	err := s.db.SelectContext(ctx, &pairings, s.db.Rebind("SELECT * FROM round_robin_pairings WHERE tournament_id = ? ORDER BY round_number ASC, position ASC"), tournamentID)
	return pairings, err
}

func (s *TournamentStore) GetPairing(ctx context.Context, id string) (*bracket.PairingRecord, error) {
	var pairing bracket.PairingRecord
	err := s.db.GetContext(ctx, &pairing, s.db.Rebind("SELECT * FROM round_robin_pairings WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err, "pairing "+id)
	}
	return &pairing, nil
}

func (s *TournamentStore) GetPairingTx(ctx context.Context, tx *sqlx.Tx, id string) (*bracket.PairingRecord, error) {
	var pairing bracket.PairingRecord
	err := tx.GetContext(ctx, &pairing, tx.Rebind("SELECT * FROM round_robin_pairings WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err, "pairing "+id)
	}
	return &pairing, nil
}

// CountOpenPairingsTx counts pairings that still wait for a result.
func (s *TournamentStore) CountOpenPairingsTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, tx.Rebind("SELECT COUNT(*) FROM round_robin_pairings WHERE tournament_id = ? AND status = ?"), tournamentID, bracket.MatchPending)
	return count, err
}

func (s *TournamentStore) UpdateMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.MatchRecord) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE matches
		SET player_a = :player_a, player_b = :player_b, status = :status, winner_id = :winner_id
		WHERE id = :id`, match)
	return err
}

func (s *TournamentStore) UpdatePairing(ctx context.Context, tx *sqlx.Tx, pairing *bracket.PairingRecord) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE round_robin_pairings
		SET status = :status, winner_id = :winner_id
		WHERE id = :id`, pairing)
	return err
}

func (s *TournamentStore) UpdateTournamentStatusTx(ctx context.Context, tx *sqlx.Tx, id string, status bracket.TournamentStatus, championID *int) error {
	_, err := tx.ExecContext(ctx, tx.Rebind("UPDATE tournaments SET status = ?, champion_id = ? WHERE id = ?"), status, championID, id)
	return err
}
