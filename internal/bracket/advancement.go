package bracket

import "github.com/AdamBeresnev/club-brackets/internal/utils"

type Advancement struct {
	NextPosition int  `json:"nextPosition"`
	Slot         Slot `json:"slot"`
}

// WBAdvancement maps a winners bracket position to its slot in the next
// round: positions 2k-1 and 2k meet at position k.
func WBAdvancement(position int) Advancement {
	return Advancement{
		NextPosition: (position + 1) / 2,
		Slot:         slotForParity(position),
	}
}

// WBToLBRound is the losers round a winners round drops its losers into.
func WBToLBRound(wbRound int) int {
	if wbRound == 1 {
		return 1
	}
	return 2 * (wbRound - 1)
}

type Placement struct {
	TargetPosition int  `json:"targetPosition"`
	Slot           Slot `json:"slot"`
}

// CrossOverPosition places a winners bracket loser into the losers bracket so
// that players from the same half do not meet again straight away.
func CrossOverPosition(wbPosition, wbRound, numLbMatches int) Placement {
	if wbRound == 1 {
		matchesInWbR1 := numLbMatches * 2
		if wbPosition <= numLbMatches {
			return Placement{TargetPosition: wbPosition, Slot: SlotA}
		}
		return Placement{TargetPosition: matchesInWbR1 - wbPosition + 1, Slot: SlotB}
	}

	// From round 2 on the losers round has as many matches as this one
	matchesInThisWbRound := numLbMatches
	half := (matchesInThisWbRound + 1) / 2

	var target int
	switch {
	case matchesInThisWbRound == 1:
		target = 1
	case wbPosition <= half:
		target = numLbMatches - wbPosition + 1
	default:
		target = matchesInThisWbRound - wbPosition + 1
	}
	return Placement{TargetPosition: target, Slot: SlotB}
}

// LBAdvancement returns the next losers round position. Odd rounds merge
// winners bracket droppers and keep their size, even rounds halve.
func LBAdvancement(position, currentRound int) int {
	if currentRound%2 == 0 {
		return (position + 1) / 2
	}
	return position
}

// LBAdvancementSlot is the slot an LB winner takes in the next round. Slot b
// of the round after an odd round belongs to the winners bracket dropper.
func LBAdvancementSlot(position, currentRound int) Slot {
	if currentRound%2 == 1 {
		return SlotA
	}
	return slotForParity(position)
}

func slotForParity(position int) Slot {
	if position%2 == 1 {
		return SlotA
	}
	return SlotB
}

type Round1Result struct {
	Position int         `json:"position"`
	PlayerA  *int        `json:"playerA"`
	PlayerB  *int        `json:"playerB"`
	WinnerID *int        `json:"winnerId"`
	Status   MatchStatus `json:"status"`
}

type SlotFill struct {
	Position int  `json:"position"`
	PlayerA  *int `json:"playerA"`
	PlayerB  *int `json:"playerB"`
	// Set when a real round 1 match will drop its loser into the slot
	ExpectsA bool `json:"expectsA,omitempty"`
	ExpectsB bool `json:"expectsB,omitempty"`
}

type ByeSimulation struct {
	WBR1Results []Round1Result `json:"wbR1Results"`
	WBR2Slots   []SlotFill     `json:"wbR2Slots"`
	LBR1Slots   []SlotFill     `json:"lbR1Slots"`
}

// SimulateWBR1Byes replays winners round 1 bye resolution without touching
// any stored bracket. Byes advance their player into round 2 but never drop a
// loser. Real matches are still pending, so their losers are only marked as
// expected in losers round 1.
func SimulateWBR1Byes(n int) (*ByeSimulation, error) {
	s, err := DoubleEliminationStructure(n)
	if err != nil {
		return nil, err
	}

	round1 := s.Round(Winners, 1)
	sim := &ByeSimulation{
		WBR1Results: make([]Round1Result, 0, len(round1)),
		WBR2Slots:   make([]SlotFill, WinnersMatchesInRound(s.BracketSize, 2)),
		LBR1Slots:   make([]SlotFill, LosersMatchesInRound(s.BracketSize, 1)),
	}
	for i := range sim.WBR2Slots {
		sim.WBR2Slots[i].Position = i + 1
	}
	for i := range sim.LBR1Slots {
		sim.LBR1Slots[i].Position = i + 1
	}

	for _, m := range round1 {
		sim.WBR1Results = append(sim.WBR1Results, Round1Result{
			Position: m.Position,
			PlayerA:  m.PlayerA,
			PlayerB:  m.PlayerB,
			WinnerID: m.WinnerID,
			Status:   m.Status,
		})

		if m.WinnerID != nil {
			adv := WBAdvancement(m.Position)
			fill := &sim.WBR2Slots[adv.NextPosition-1]
			if adv.Slot == SlotA {
				fill.PlayerA = utils.Ptr(*m.WinnerID)
			} else {
				fill.PlayerB = utils.Ptr(*m.WinnerID)
			}
		}

		if m.HasBothPlayers() {
			p := CrossOverPosition(m.Position, 1, len(sim.LBR1Slots))
			fill := &sim.LBR1Slots[p.TargetPosition-1]
			if p.Slot == SlotA {
				fill.ExpectsA = true
			} else {
				fill.ExpectsB = true
			}
		}
	}

	return sim, nil
}
