package bracket

import "fmt"

// Only these sizes have a defined balanced order. Anything else is rejected
// rather than falling back to an unbalanced identity order.
var supportedBracketSizes = map[int]bool{2: true, 4: true, 8: true, 16: true}

// SeedOrder returns the 1-based seeds in bracket slot order, so that slots
// (0,1), (2,3), ... are the round 1 pairings. For 8 it returns
// [1 8 4 5 2 7 3 6]: seeds 1 and 2 can only meet in the final.
func SeedOrder(bracketSize int) ([]int, error) {
	if !supportedBracketSizes[bracketSize] {
		return nil, fmt.Errorf("%w: %d (supported: 2, 4, 8, 16)", ErrUnsupportedBracketSize, bracketSize)
	}

	// Each seed is followed by its mirror opponent for the doubled field
	order := []int{1}
	for len(order) < bracketSize {
		next := make([]int, 0, len(order)*2)
		currentCount := len(order) * 2

		for _, seed := range order {
			next = append(next, seed, currentCount+1-seed)
		}
		order = next
	}

	return order, nil
}

// Round1Pairs groups the seed order into round 1 pairings.
func Round1Pairs(bracketSize int) ([][2]int, error) {
	order, err := SeedOrder(bracketSize)
	if err != nil {
		return nil, err
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(order); i += 2 {
		pairs = append(pairs, [2]int{order[i], order[i+1]})
	}
	return pairs, nil
}
