// Package views shapes stored tournaments into the layout a bracket renderer
// draws from.
package views

import (
	"fmt"
	"sort"

	"github.com/AdamBeresnev/club-brackets/internal/bracket"
	"github.com/AdamBeresnev/club-brackets/internal/progression"
	"github.com/google/uuid"
)

type BracketData struct {
	WBRounds       map[int][]bracket.MatchRecord `json:"wbRounds"`
	WBRoundNums    []int                         `json:"wbRoundNums"`
	LBRounds       map[int][]bracket.MatchRecord `json:"lbRounds"`
	LBRoundNums    []int                         `json:"lbRoundNums"`
	FinalRounds    map[int][]bracket.MatchRecord `json:"finalRounds"`
	FinalRoundNums []int                         `json:"finalRoundNums"`
	// Keyed by player index
	EntryMap map[int]bracket.Entry `json:"entryMap"`
	// Matches whose results feed each match, for drawing connectors
	Feeders map[uuid.UUID][]uuid.UUID `json:"feeders"`
}

func PrepareBracketData(bracketSize int, entries []bracket.Entry, matches []bracket.MatchRecord) (BracketData, error) {
	entryMap := make(map[int]bracket.Entry)
	for _, e := range entries {
		entryMap[e.PlayerIndex()] = e
	}

	wbRounds := make(map[int][]bracket.MatchRecord)
	lbRounds := make(map[int][]bracket.MatchRecord)
	finalRounds := make(map[int][]bracket.MatchRecord)

	var wbRoundNums []int
	var lbRoundNums []int
	var finalRoundNums []int

	plain := make([]bracket.Match, len(matches))
	ids := make(map[progression.Key]uuid.UUID, len(matches))

	for i, m := range matches {
		plain[i] = m.Match
		ids[progression.KeyOf(m.Match)] = m.ID

		switch m.BracketType {
		case bracket.Winners:
			if _, exists := wbRounds[m.Round]; !exists {
				wbRoundNums = append(wbRoundNums, m.Round)
			}
			wbRounds[m.Round] = append(wbRounds[m.Round], m)
		case bracket.Losers:
			if _, exists := lbRounds[m.Round]; !exists {
				lbRoundNums = append(lbRoundNums, m.Round)
			}
			lbRounds[m.Round] = append(lbRounds[m.Round], m)
		case bracket.Finals, bracket.GrandFinals:
			if _, exists := finalRounds[m.Round]; !exists {
				finalRoundNums = append(finalRoundNums, m.Round)
			}
			finalRounds[m.Round] = append(finalRounds[m.Round], m)
		}
	}

	b, err := progression.New(bracketSize, plain)
	if err != nil {
		return BracketData{}, fmt.Errorf("failed to wire bracket: %w", err)
	}

	feeders := make(map[uuid.UUID][]uuid.UUID, len(matches))
	for _, m := range matches {
		for _, k := range b.Feeders(progression.KeyOf(m.Match)) {
			feeders[m.ID] = append(feeders[m.ID], ids[k])
		}
	}

	sort.Ints(wbRoundNums)
	sort.Ints(lbRoundNums)
	sort.Ints(finalRoundNums)

	sortRounds(wbRounds, wbRoundNums)
	sortRounds(lbRounds, lbRoundNums)
	sortRounds(finalRounds, finalRoundNums)

	return BracketData{
		WBRounds:       wbRounds,
		WBRoundNums:    wbRoundNums,
		LBRounds:       lbRounds,
		LBRoundNums:    lbRoundNums,
		FinalRounds:    finalRounds,
		FinalRoundNums: finalRoundNums,
		EntryMap:       entryMap,
		Feeders:        feeders,
	}, nil
}

func sortRounds(rounds map[int][]bracket.MatchRecord, roundNums []int) {
	for _, r := range roundNums {
		sort.Slice(rounds[r], func(i, j int) bool {
			return rounds[r][i].Position < rounds[r][j].Position
		})
	}
}
