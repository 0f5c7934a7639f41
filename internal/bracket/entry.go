package bracket

import "github.com/google/uuid"

// Entry is a participant. Its player index is Seed - 1.
type Entry struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`
	Name         string    `db:"name" json:"name"`
	Seed         int       `db:"seed" json:"seed"`
}

func (e Entry) PlayerIndex() int {
	return e.Seed - 1
}
