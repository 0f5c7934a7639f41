package bracket

import "fmt"

type StructureValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateDoubleEliminationStructure compares match counts per bracket and
// round against the expected shape. It reports problems instead of failing.
func ValidateDoubleEliminationStructure(s *Structure) StructureValidation {
	errs := make([]string, 0)
	if s == nil {
		return StructureValidation{Errors: append(errs, "structure is nil")}
	}

	counts := make(map[BracketType]map[int]int)
	for _, m := range s.Matches {
		if counts[m.BracketType] == nil {
			counts[m.BracketType] = make(map[int]int)
		}
		counts[m.BracketType][m.Round]++
	}

	total := func(bt BracketType) int {
		sum := 0
		for _, c := range counts[bt] {
			sum += c
		}
		return sum
	}

	expectedWB := 0
	for r := 1; r <= s.WinnersRounds; r++ {
		expected := WinnersMatchesInRound(s.BracketSize, r)
		expectedWB += expected
		if got := counts[Winners][r]; got != expected {
			errs = append(errs, fmt.Sprintf("WB round %d: expected %d matches, got %d", r, expected, got))
		}
	}
	if got := total(Winners); got != expectedWB {
		errs = append(errs, fmt.Sprintf("WB: expected %d matches, got %d", expectedWB, got))
	}

	expectedLB := 0
	for r := 1; r <= s.LosersRounds; r++ {
		expected := LosersMatchesInRound(s.BracketSize, r)
		expectedLB += expected
		if got := counts[Losers][r]; got != expected {
			errs = append(errs, fmt.Sprintf("LB round %d: expected %d matches, got %d", r, expected, got))
		}
	}
	if got := total(Losers); got != expectedLB {
		errs = append(errs, fmt.Sprintf("LB: expected %d matches, got %d", expectedLB, got))
	}

	if got := total(Finals); got != 1 {
		errs = append(errs, fmt.Sprintf("Finals: expected 1, got %d", got))
	}
	if got := total(GrandFinals); got != 1 {
		errs = append(errs, fmt.Sprintf("Grand Finals: expected 1, got %d", got))
	}

	return StructureValidation{Valid: len(errs) == 0, Errors: errs}
}
