package bracket

import (
	"fmt"

	"github.com/AdamBeresnev/club-brackets/internal/utils"
)

const (
	// Every double elimination bracket starts at the round of 16, unused
	// seeds become byes.
	DoubleElimBracketSize = 16
	MaxDoubleElimPlayers  = DoubleElimBracketSize
)

type Structure struct {
	Matches         []Match `json:"matches"`
	BracketSize     int     `json:"bracketSize"`
	WinnersRounds   int     `json:"winnersRounds"`
	LosersRounds    int     `json:"losersRounds"`
	WBMatchCount    int     `json:"wbMatchCount"`
	LBMatchCount    int     `json:"lbMatchCount"`
	TotalMatchCount int     `json:"totalMatchCount"`
}

// Round returns the matches of one bracket round, ordered by position.
func (s *Structure) Round(bracketType BracketType, round int) []Match {
	var matches []Match
	for _, m := range s.Matches {
		if m.BracketType == bracketType && m.Round == round {
			matches = append(matches, m)
		}
	}
	return matches
}

// WinnersRoundsFor is log2 of the bracket size.
func WinnersRoundsFor(bracketSize int) int {
	rounds := 0
	for size := bracketSize; size > 1; size /= 2 {
		rounds++
	}
	return rounds
}

func LosersRoundsFor(bracketSize int) int {
	return 2 * (WinnersRoundsFor(bracketSize) - 1)
}

func WinnersMatchesInRound(bracketSize, round int) int {
	return bracketSize >> round
}

// LosersMatchesInRound is max(1, bracketSize / 2^floor((round+3)/2)): the
// losers bracket halves every other round, giving 4 4 2 2 1 1 for 16.
func LosersMatchesInRound(bracketSize, round int) int {
	return max(1, bracketSize>>((round+3)/2))
}

// DoubleEliminationStructure builds the full skeleton for n participants.
// Only winners round 1 is seeded, its byes are resolved immediately. Every
// other slot stays empty until results are recorded.
func DoubleEliminationStructure(n int) (*Structure, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewParticipants, n)
	}
	if n > MaxDoubleElimPlayers {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyParticipants, n)
	}

	bracketSize := DoubleElimBracketSize
	pairs, err := Round1Pairs(bracketSize)
	if err != nil {
		return nil, err
	}

	s := &Structure{
		BracketSize:   bracketSize,
		WinnersRounds: WinnersRoundsFor(bracketSize),
		LosersRounds:  LosersRoundsFor(bracketSize),
	}

	for r := 1; r <= s.WinnersRounds; r++ {
		for pos := 1; pos <= WinnersMatchesInRound(bracketSize, r); pos++ {
			m := Match{
				Round:       r,
				Position:    pos,
				BracketType: Winners,
				Status:      MatchPending,
			}
			if r == 1 {
				m = seedRound1Match(m, pairs[pos-1], n)
			}
			s.Matches = append(s.Matches, m)
			s.WBMatchCount++
		}
	}

	for r := 1; r <= s.LosersRounds; r++ {
		for pos := 1; pos <= LosersMatchesInRound(bracketSize, r); pos++ {
			s.Matches = append(s.Matches, Match{
				Round:       r,
				Position:    pos,
				BracketType: Losers,
				Status:      MatchPending,
			})
			s.LBMatchCount++
		}
	}

	s.Matches = append(s.Matches,
		Match{Round: 1, Position: 1, BracketType: Finals, Status: MatchPending},
		Match{Round: 2, Position: 1, BracketType: GrandFinals, Status: MatchPending},
	)
	s.TotalMatchCount = s.WBMatchCount + s.LBMatchCount + 2

	return s, nil
}

// Seeds above n are absent. One present seed advances on a bye, none leaves
// a double bye that produces neither a winner nor a loser.
func seedRound1Match(m Match, pair [2]int, n int) Match {
	if pair[0] <= n {
		m.PlayerA = utils.Ptr(pair[0] - 1)
	}
	if pair[1] <= n {
		m.PlayerB = utils.Ptr(pair[1] - 1)
	}

	switch {
	case m.PlayerA == nil && m.PlayerB == nil:
		m.Status = MatchSkipped
	case m.PlayerA == nil:
		m.Status = MatchCompleted
		m.WinnerID = utils.Ptr(*m.PlayerB)
	case m.PlayerB == nil:
		m.Status = MatchCompleted
		m.WinnerID = utils.Ptr(*m.PlayerA)
	}
	return m
}
