package bracket

import (
	"fmt"
	"sort"

	"github.com/AdamBeresnev/club-brackets/internal/utils"
)

// Pairing is one game of a round-robin round. A bye has B == nil.
type Pairing struct {
	A     int  `json:"a"`
	B     *int `json:"b"`
	IsBye bool `json:"isBye"`
}

type RoundRobinSchedule struct {
	Rounds [][]Pairing `json:"rounds"`
	// Includes byes, one per round for an odd field
	TotalMatches int `json:"totalMatches"`
	TotalRounds  int `json:"totalRounds"`
}

// RealMatches counts the pairings that are actually played.
func (s *RoundRobinSchedule) RealMatches() int {
	count := 0
	for _, round := range s.Rounds {
		for _, p := range round {
			if !p.IsBye {
				count++
			}
		}
	}
	return count
}

// A full round robin grows with n², a club league never gets near this.
const MaxRoundRobinParticipants = 64

// RoundRobinPairings builds a full schedule with the circle method: position 0
// stays fixed while every other position rotates one step per round.
func RoundRobinPairings(n int) (*RoundRobinSchedule, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewParticipants, n)
	}
	if n > MaxRoundRobinParticipants {
		return nil, fmt.Errorf("%w: got %d", ErrRoundRobinTooLarge, n)
	}

	// nil marks the phantom slot added for an odd field
	positions := make([]*int, 0, n+1)
	for i := 0; i < n; i++ {
		positions = append(positions, utils.Ptr(i))
	}
	if n%2 == 1 {
		positions = append(positions, nil)
	}

	size := len(positions)
	numRounds := size - 1
	schedule := &RoundRobinSchedule{
		Rounds:      make([][]Pairing, 0, numRounds),
		TotalRounds: numRounds,
	}

	for round := 0; round < numRounds; round++ {
		pairings := make([]Pairing, 0, size/2)

		for i := 0; i < size/2; i++ {
			p1 := positions[i]
			p2 := positions[size-1-i]

			switch {
			case p1 != nil && p2 != nil:
				pairings = append(pairings, Pairing{A: *p1, B: utils.Ptr(*p2)})
			case p1 != nil:
				pairings = append(pairings, Pairing{A: *p1, IsBye: true})
			case p2 != nil:
				pairings = append(pairings, Pairing{A: *p2, IsBye: true})
			}
		}

		schedule.Rounds = append(schedule.Rounds, pairings)
		schedule.TotalMatches += len(pairings)

		last := positions[size-1]
		copy(positions[2:], positions[1:size-1])
		positions[1] = last
	}

	return schedule, nil
}

type pairKey struct{ lo, hi int }

// UniquePairings returns every unordered pair that plays a real game.
func UniquePairings(rounds [][]Pairing) map[[2]int]bool {
	pairs := make(map[[2]int]bool)
	for _, round := range rounds {
		for _, p := range round {
			if p.IsBye || p.B == nil {
				continue
			}
			k := normalize(p.A, *p.B)
			pairs[[2]int{k.lo, k.hi}] = true
		}
	}
	return pairs
}

type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidateRoundRobinCompleteness checks that every pair meets exactly once and
// nobody plays twice in the same round.
func ValidateRoundRobinCompleteness(n int, rounds [][]Pairing) Validation {
	expected := n * (n - 1) / 2

	seen := make(map[pairKey]int)
	for _, round := range rounds {
		for _, p := range round {
			if p.IsBye || p.B == nil {
				continue
			}
			seen[normalize(p.A, *p.B)]++
		}
	}
	if len(seen) != expected {
		return Validation{Reason: fmt.Sprintf("expected %d unique pairings, got %d", expected, len(seen))}
	}

	dupes := make([]pairKey, 0)
	for k, count := range seen {
		if count > 1 {
			dupes = append(dupes, k)
		}
	}
	if len(dupes) > 0 {
		sort.Slice(dupes, func(i, j int) bool {
			if dupes[i].lo != dupes[j].lo {
				return dupes[i].lo < dupes[j].lo
			}
			return dupes[i].hi < dupes[j].hi
		})
		return Validation{Reason: fmt.Sprintf("pairing %d-%d is played %d times", dupes[0].lo, dupes[0].hi, seen[dupes[0]])}
	}

	for r, round := range rounds {
		appearances := make(map[int]int)
		for _, p := range round {
			appearances[p.A]++
			if p.B != nil {
				appearances[*p.B]++
			}
		}
		for player := 0; player < n; player++ {
			if appearances[player] > 1 {
				return Validation{Reason: fmt.Sprintf("player %d appears %d times in round %d", player, appearances[player], r+1)}
			}
		}
	}

	return Validation{Valid: true}
}

func normalize(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}
