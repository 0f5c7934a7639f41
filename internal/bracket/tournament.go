package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentStarted   TournamentStatus = "started"
	TournamentCompleted TournamentStatus = "completed"
)

type Format string

const (
	RoundRobin        Format = "round_robin"
	DoubleElimination Format = "double_elimination"
)

func (f Format) Valid() bool {
	return f == RoundRobin || f == DoubleElimination
}

// Tournament is a stored event. BracketSize is the slot count of the
// elimination bracket and 0 for round robin. ChampionID is the winner's
// participant index once the tournament is decided.
type Tournament struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Status      TournamentStatus `db:"status" json:"status"`
	Format      Format           `db:"format" json:"format"`
	BracketSize int              `db:"bracket_size" json:"bracketSize"`
	ChampionID  *int             `db:"champion_id" json:"championId"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}
