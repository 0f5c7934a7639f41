package bracket

import (
	"fmt"
	"testing"

	"github.com/AdamBeresnev/club-brackets/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleEliminationStructure_Counts(t *testing.T) {
	for n := 2; n <= 16; n++ {
		t.Run(fmt.Sprintf("%d participants", n), func(t *testing.T) {
			s, err := DoubleEliminationStructure(n)
			require.NoError(t, err)

			assert.Equal(t, 16, s.BracketSize)
			assert.Equal(t, 4, s.WinnersRounds)
			assert.Equal(t, 6, s.LosersRounds)
			assert.Equal(t, 15, s.WBMatchCount)
			assert.Equal(t, 14, s.LBMatchCount)
			assert.Equal(t, 31, s.TotalMatchCount)
			assert.Len(t, s.Matches, 31)

			validation := ValidateDoubleEliminationStructure(s)
			assert.True(t, validation.Valid, validation.Errors)
			assert.Empty(t, validation.Errors)
		})
	}
}

func TestDoubleEliminationStructure_RoundSizes(t *testing.T) {
	s, err := DoubleEliminationStructure(16)
	require.NoError(t, err)

	for r, expected := range map[int]int{1: 8, 2: 4, 3: 2, 4: 1} {
		assert.Len(t, s.Round(Winners, r), expected, "WB round %d", r)
	}
	for r, expected := range map[int]int{1: 4, 2: 4, 3: 2, 4: 2, 5: 1, 6: 1} {
		assert.Len(t, s.Round(Losers, r), expected, "LB round %d", r)
		assert.Equal(t, expected, LosersMatchesInRound(16, r))
	}
	assert.Len(t, s.Round(Finals, 1), 1)
	assert.Len(t, s.Round(GrandFinals, 2), 1)
}

func TestDoubleEliminationStructure_InvalidCount(t *testing.T) {
	testCases := []struct {
		name     string
		n        int
		expected error
	}{
		{name: "no participants", n: 0, expected: ErrTooFewParticipants},
		{name: "single participant", n: 1, expected: ErrTooFewParticipants},
		{name: "17 participants", n: 17, expected: ErrTooManyParticipants},
		{name: "32 participants", n: 32, expected: ErrTooManyParticipants},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := DoubleEliminationStructure(tc.n)
			assert.ErrorIs(t, err, tc.expected)
			assert.Nil(t, s)
		})
	}
}

func TestDoubleEliminationStructure_FullField(t *testing.T) {
	s, err := DoubleEliminationStructure(16)
	require.NoError(t, err)

	round1 := s.Round(Winners, 1)
	for _, m := range round1 {
		assert.NotNil(t, m.PlayerA)
		assert.NotNil(t, m.PlayerB)
		assert.Equal(t, MatchPending, m.Status)
		assert.Nil(t, m.WinnerID)
	}

	// Seed 1 (index 0) opens against seed 16 (index 15)
	assert.Equal(t, utils.Ptr(0), round1[0].PlayerA)
	assert.Equal(t, utils.Ptr(15), round1[0].PlayerB)
}

func TestDoubleEliminationStructure_ThreeParticipants(t *testing.T) {
	s, err := DoubleEliminationStructure(3)
	require.NoError(t, err)

	round1 := s.Round(Winners, 1)
	require.Len(t, round1, 8)

	byes := map[int]int{1: 0, 5: 1, 7: 2}
	for _, m := range round1 {
		if winner, ok := byes[m.Position]; ok {
			assert.Equal(t, MatchCompleted, m.Status, "position %d", m.Position)
			assert.Equal(t, utils.Ptr(winner), m.WinnerID, "position %d", m.Position)
			assert.Equal(t, OutcomeBye, m.Outcome().Kind)
			continue
		}
		assert.Equal(t, MatchSkipped, m.Status, "position %d", m.Position)
		assert.Nil(t, m.WinnerID)
		assert.Nil(t, m.PlayerA)
		assert.Nil(t, m.PlayerB)
		assert.Equal(t, OutcomeDoubleBye, m.Outcome().Kind)
	}
}

func TestDoubleEliminationStructure_ByeDistribution(t *testing.T) {
	testCases := []struct {
		n       int
		real    int
		byes    int
		skipped int
	}{
		{n: 2, real: 0, byes: 2, skipped: 6},
		{n: 4, real: 0, byes: 4, skipped: 4},
		{n: 5, real: 0, byes: 5, skipped: 3},
		{n: 8, real: 0, byes: 8, skipped: 0},
		{n: 9, real: 1, byes: 7, skipped: 0},
		{n: 10, real: 2, byes: 6, skipped: 0},
		{n: 15, real: 7, byes: 1, skipped: 0},
		{n: 16, real: 8, byes: 0, skipped: 0},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d participants", tc.n), func(t *testing.T) {
			s, err := DoubleEliminationStructure(tc.n)
			require.NoError(t, err)

			var real, byes, skipped int
			seen := make(map[int]bool)
			for _, m := range s.Round(Winners, 1) {
				switch m.Outcome().Kind {
				case OutcomePending:
					real++
				case OutcomeBye:
					byes++
				case OutcomeDoubleBye:
					skipped++
				}
				for _, p := range []*int{m.PlayerA, m.PlayerB} {
					if p != nil {
						assert.False(t, seen[*p], "player %d seeded twice", *p)
						seen[*p] = true
					}
				}
			}

			assert.Equal(t, tc.real, real)
			assert.Equal(t, tc.byes, byes)
			assert.Equal(t, tc.skipped, skipped)
			assert.Len(t, seen, tc.n)
		})
	}
}

func TestDoubleEliminationStructure_LaterRoundsStartEmpty(t *testing.T) {
	s, err := DoubleEliminationStructure(7)
	require.NoError(t, err)

	for _, m := range s.Matches {
		if m.BracketType == Winners && m.Round == 1 {
			continue
		}
		assert.Nil(t, m.PlayerA)
		assert.Nil(t, m.PlayerB)
		assert.Nil(t, m.WinnerID)
		assert.Equal(t, MatchPending, m.Status)
	}
}
