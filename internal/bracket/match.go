package bracket

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchCompleted MatchStatus = "completed"
	// Double bye: neither slot has a participant, so nothing leaves this match.
	MatchSkipped MatchStatus = "skipped"
)

type BracketType string

const (
	Winners     BracketType = "winners"
	Losers      BracketType = "losers"
	Finals      BracketType = "finals"
	GrandFinals BracketType = "grand_finals"
)

type Slot string

const (
	SlotA Slot = "a"
	SlotB Slot = "b"
)

// Match is one slot of a bracket. Players are zero-based indexes into the
// seeded participant list, nil while undetermined or when the slot is a bye.
type Match struct {
	// Position in the bracket for reconstructing the view
	Round       int         `db:"round_number" json:"round"`
	Position    int         `db:"position" json:"position"`
	BracketType BracketType `db:"bracket_type" json:"bracketType"`

	PlayerA *int `db:"player_a" json:"playerA"`
	PlayerB *int `db:"player_b" json:"playerB"`

	Status   MatchStatus `db:"status" json:"status"`
	WinnerID *int        `db:"winner_id" json:"winnerId"`
}

func (m *Match) Player(slot Slot) *int {
	if slot == SlotA {
		return m.PlayerA
	}
	return m.PlayerB
}

func (m *Match) SetPlayer(slot Slot, player *int) {
	if slot == SlotA {
		m.PlayerA = player
	} else {
		m.PlayerB = player
	}
}

func (m *Match) HasBothPlayers() bool {
	return m.PlayerA != nil && m.PlayerB != nil
}

func (m *Match) HasPlayer(player int) bool {
	return (m.PlayerA != nil && *m.PlayerA == player) || (m.PlayerB != nil && *m.PlayerB == player)
}

// Loser returns the player who lost a decided match. Byes have no loser.
func (m *Match) Loser() (int, bool) {
	o := m.Outcome()
	if o.Kind != OutcomeDecided {
		return 0, false
	}
	if *m.PlayerA == o.Winner {
		return *m.PlayerB, true
	}
	return *m.PlayerA, true
}

type OutcomeKind int

const (
	OutcomePending OutcomeKind = iota
	OutcomeBye
	OutcomeDoubleBye
	OutcomeDecided
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeBye:
		return "bye"
	case OutcomeDoubleBye:
		return "double_bye"
	case OutcomeDecided:
		return "decided"
	default:
		return "pending"
	}
}

// MatchOutcome is the resolved state of a match. Winner is only meaningful
// for OutcomeBye and OutcomeDecided.
type MatchOutcome struct {
	Kind   OutcomeKind
	Winner int
}

// Outcome derives the tagged outcome from the stored status and slots.
// A completed match with a single participant is a bye and produces no loser.
func (m *Match) Outcome() MatchOutcome {
	switch m.Status {
	case MatchSkipped:
		return MatchOutcome{Kind: OutcomeDoubleBye}
	case MatchCompleted:
		if m.WinnerID == nil {
			return MatchOutcome{Kind: OutcomePending}
		}
		if m.HasBothPlayers() {
			return MatchOutcome{Kind: OutcomeDecided, Winner: *m.WinnerID}
		}
		return MatchOutcome{Kind: OutcomeBye, Winner: *m.WinnerID}
	default:
		return MatchOutcome{Kind: OutcomePending}
	}
}

// IsResolved reports whether the match will never change again.
func (m *Match) IsResolved() bool {
	return m.Outcome().Kind != OutcomePending
}
