package service

import "github.com/AdamBeresnev/club-brackets/internal/bracket"

// Previews compute layouts without touching storage.

type SeedOrderPreview struct {
	BracketSize int      `json:"bracketSize"`
	Order       []int    `json:"order"`
	Pairs       [][2]int `json:"pairs"`
}

func PreviewSeedOrder(size int) (*SeedOrderPreview, error) {
	order, err := bracket.SeedOrder(size)
	if err != nil {
		return nil, err
	}
	pairs, err := bracket.Round1Pairs(size)
	if err != nil {
		return nil, err
	}
	return &SeedOrderPreview{BracketSize: size, Order: order, Pairs: pairs}, nil
}

type RoundRobinPreview struct {
	Schedule    *bracket.RoundRobinSchedule `json:"schedule"`
	RealMatches int                         `json:"realMatches"`
	Validation  bracket.Validation          `json:"validation"`
}

func PreviewRoundRobin(n int) (*RoundRobinPreview, error) {
	schedule, err := bracket.RoundRobinPairings(n)
	if err != nil {
		return nil, err
	}
	return &RoundRobinPreview{
		Schedule:    schedule,
		RealMatches: schedule.RealMatches(),
		Validation:  bracket.ValidateRoundRobinCompleteness(n, schedule.Rounds),
	}, nil
}

type DoubleEliminationPreview struct {
	Structure  *bracket.Structure          `json:"structure"`
	Validation bracket.StructureValidation `json:"validation"`
}

func PreviewDoubleElimination(n int) (*DoubleEliminationPreview, error) {
	structure, err := bracket.DoubleEliminationStructure(n)
	if err != nil {
		return nil, err
	}
	return &DoubleEliminationPreview{
		Structure:  structure,
		Validation: bracket.ValidateDoubleEliminationStructure(structure),
	}, nil
}

func PreviewByes(n int) (*bracket.ByeSimulation, error) {
	return bracket.SimulateWBR1Byes(n)
}
