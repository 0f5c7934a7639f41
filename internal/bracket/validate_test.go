package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDoubleEliminationStructure(t *testing.T) {
	build := func(t *testing.T) *Structure {
		t.Helper()
		s, err := DoubleEliminationStructure(6)
		require.NoError(t, err)
		return s
	}

	without := func(matches []Match, bt BracketType, round int) []Match {
		out := make([]Match, 0, len(matches))
		removed := false
		for _, m := range matches {
			if !removed && m.BracketType == bt && m.Round == round {
				removed = true
				continue
			}
			out = append(out, m)
		}
		return out
	}

	testCases := []struct {
		name     string
		mutate   func(s *Structure)
		expected []string
	}{
		{
			name:     "generated structure",
			mutate:   func(s *Structure) {},
			expected: []string{},
		},
		{
			name: "missing WB match",
			mutate: func(s *Structure) {
				s.Matches = without(s.Matches, Winners, 2)
			},
			expected: []string{
				"WB round 2: expected 4 matches, got 3",
				"WB: expected 15 matches, got 14",
			},
		},
		{
			name: "missing LB match",
			mutate: func(s *Structure) {
				s.Matches = without(s.Matches, Losers, 3)
			},
			expected: []string{
				"LB round 3: expected 2 matches, got 1",
				"LB: expected 14 matches, got 13",
			},
		},
		{
			name: "extra finals",
			mutate: func(s *Structure) {
				s.Matches = append(s.Matches, Match{Round: 1, Position: 2, BracketType: Finals, Status: MatchPending})
			},
			expected: []string{"Finals: expected 1, got 2"},
		},
		{
			name: "missing grand finals",
			mutate: func(s *Structure) {
				s.Matches = without(s.Matches, GrandFinals, 2)
			},
			expected: []string{"Grand Finals: expected 1, got 0"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := build(t)
			tc.mutate(s)

			validation := ValidateDoubleEliminationStructure(s)
			assert.Equal(t, len(tc.expected) == 0, validation.Valid)
			assert.Equal(t, tc.expected, validation.Errors)
		})
	}
}

func TestValidateDoubleEliminationStructure_Nil(t *testing.T) {
	validation := ValidateDoubleEliminationStructure(nil)
	assert.False(t, validation.Valid)
	assert.Equal(t, []string{"structure is nil"}, validation.Errors)
}
