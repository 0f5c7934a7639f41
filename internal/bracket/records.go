package bracket

import (
	"time"

	"github.com/google/uuid"
)

// MatchRecord is a persisted double elimination match.
type MatchRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`
	Match
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PairingRecord is a persisted round robin pairing. Bye pairings are stored
// as skipped since the sitting player has no opponent.
type PairingRecord struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	TournamentID uuid.UUID   `db:"tournament_id" json:"tournamentId"`
	Round        int         `db:"round_number" json:"round"`
	Position     int         `db:"position" json:"position"`
	PlayerA      int         `db:"player_a" json:"playerA"`
	PlayerB      *int        `db:"player_b" json:"playerB"`
	IsBye        bool        `db:"is_bye" json:"isBye"`
	Status       MatchStatus `db:"status" json:"status"`
	WinnerID     *int        `db:"winner_id" json:"winnerId"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}

func (p *PairingRecord) HasPlayer(player int) bool {
	return p.PlayerA == player || (p.PlayerB != nil && *p.PlayerB == player)
}
