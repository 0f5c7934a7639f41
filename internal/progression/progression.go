// Package progression applies match results to a double elimination skeleton.
//
// The bracket package only computes where a result belongs. This package owns
// the mutable copy of a tournament's matches: it records winners, moves
// players into the slots the advancement rules point at, and cascades byes
// through rounds whose feeders produced nobody.
package progression

import (
	"errors"
	"fmt"

	"github.com/AdamBeresnev/club-brackets/internal/bracket"
	"github.com/AdamBeresnev/club-brackets/internal/utils"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNotReady       = errors.New("match is not ready to be decided")
	ErrMatchAlreadyDecided = errors.New("match has already been decided")
	ErrWinnerNotInMatch    = errors.New("winner is not part of this match")
)

type Key struct {
	BracketType bracket.BracketType `json:"bracketType"`
	Round       int                 `json:"round"`
	Position    int                 `json:"position"`
}

func KeyOf(m bracket.Match) Key {
	return Key{BracketType: m.BracketType, Round: m.Round, Position: m.Position}
}

func (k Key) String() string {
	return fmt.Sprintf("%s R%d #%d", k.BracketType, k.Round, k.Position)
}

var (
	finalsKey      = Key{BracketType: bracket.Finals, Round: 1, Position: 1}
	grandFinalsKey = Key{BracketType: bracket.GrandFinals, Round: 2, Position: 1}
)

type Destination struct {
	Key  Key          `json:"key"`
	Slot bracket.Slot `json:"slot"`
}

type source struct {
	from  Key
	loser bool
}

type slotState int

const (
	slotOpen slotState = iota
	slotFilled
	slotDead
)

type Bracket struct {
	bracketSize   int
	winnersRounds int
	losersRounds  int

	matches []bracket.Match
	index   map[Key]int
	feeders map[Destination]source
	changed map[int]bool
}

// New copies matches into a bracket that can be progressed. It fails when
// two matches claim the same position or two feeders target the same slot.
func New(bracketSize int, matches []bracket.Match) (*Bracket, error) {
	if _, err := bracket.SeedOrder(bracketSize); err != nil {
		return nil, err
	}

	b := &Bracket{
		bracketSize:   bracketSize,
		winnersRounds: bracket.WinnersRoundsFor(bracketSize),
		losersRounds:  bracket.LosersRoundsFor(bracketSize),
		matches:       make([]bracket.Match, len(matches)),
		index:         make(map[Key]int, len(matches)),
		feeders:       make(map[Destination]source),
		changed:       make(map[int]bool),
	}
	copy(b.matches, matches)

	for i, m := range b.matches {
		k := KeyOf(m)
		if _, exists := b.index[k]; exists {
			return nil, fmt.Errorf("duplicate match %s", k)
		}
		b.index[k] = i
	}

	for _, m := range b.matches {
		from := KeyOf(m)
		if dest, ok := b.WinnerDestination(m); ok {
			if err := b.addFeeder(dest, source{from: from}); err != nil {
				return nil, err
			}
		}
		if dest, ok := b.LoserDestination(m); ok {
			if err := b.addFeeder(dest, source{from: from, loser: true}); err != nil {
				return nil, err
			}
		}
	}

	return b, nil
}

func (b *Bracket) addFeeder(dest Destination, src source) error {
	if _, ok := b.index[dest.Key]; !ok {
		return fmt.Errorf("%s feeds missing match %s", src.from, dest.Key)
	}
	if existing, ok := b.feeders[dest]; ok {
		return fmt.Errorf("slot %s of %s is fed by both %s and %s", dest.Slot, dest.Key, existing.from, src.from)
	}
	b.feeders[dest] = src
	return nil
}

// WinnerDestination is where the winner of m plays next. The finals winner
// has no fixed destination, see resolveGrandFinals.
func (b *Bracket) WinnerDestination(m bracket.Match) (Destination, bool) {
	switch m.BracketType {
	case bracket.Winners:
		if m.Round >= b.winnersRounds {
			return Destination{Key: finalsKey, Slot: bracket.SlotA}, true
		}
		adv := bracket.WBAdvancement(m.Position)
		return Destination{
			Key:  Key{BracketType: bracket.Winners, Round: m.Round + 1, Position: adv.NextPosition},
			Slot: adv.Slot,
		}, true
	case bracket.Losers:
		if m.Round >= b.losersRounds {
			return Destination{Key: finalsKey, Slot: bracket.SlotB}, true
		}
		return Destination{
			Key:  Key{BracketType: bracket.Losers, Round: m.Round + 1, Position: bracket.LBAdvancement(m.Position, m.Round)},
			Slot: bracket.LBAdvancementSlot(m.Position, m.Round),
		}, true
	}
	return Destination{}, false
}

// LoserDestination is where a winners bracket loser drops to. Losers
// bracket losers are eliminated.
func (b *Bracket) LoserDestination(m bracket.Match) (Destination, bool) {
	if m.BracketType != bracket.Winners {
		return Destination{}, false
	}
	lbRound := bracket.WBToLBRound(m.Round)
	p := bracket.CrossOverPosition(m.Position, m.Round, bracket.LosersMatchesInRound(b.bracketSize, lbRound))
	return Destination{
		Key:  Key{BracketType: bracket.Losers, Round: lbRound, Position: p.TargetPosition},
		Slot: p.Slot,
	}, true
}

// Feeders returns the matches whose results fill k, slot a first.
func (b *Bracket) Feeders(k Key) []Key {
	var keys []Key
	for _, slot := range []bracket.Slot{bracket.SlotA, bracket.SlotB} {
		if src, ok := b.feeders[Destination{Key: k, Slot: slot}]; ok {
			keys = append(keys, src.from)
		}
	}
	if k == grandFinalsKey {
		if _, ok := b.index[finalsKey]; ok {
			keys = append(keys, finalsKey)
		}
	}
	return keys
}

func (b *Bracket) Match(k Key) (bracket.Match, bool) {
	i, ok := b.index[k]
	if !ok {
		return bracket.Match{}, false
	}
	return b.matches[i], true
}

func (b *Bracket) Matches() []bracket.Match {
	out := make([]bracket.Match, len(b.matches))
	copy(out, b.matches)
	return out
}

// Changed returns every match modified since New, in input order.
func (b *Bracket) Changed() []bracket.Match {
	out := make([]bracket.Match, 0, len(b.changed))
	for i := range b.matches {
		if b.changed[i] {
			out = append(out, b.matches[i])
		}
	}
	return out
}

// Playable lists matches with both players set and no result yet.
func (b *Bracket) Playable() []Key {
	var keys []Key
	for _, m := range b.matches {
		if m.Status == bracket.MatchPending && m.HasBothPlayers() {
			keys = append(keys, KeyOf(m))
		}
	}
	return keys
}

// Record stores the winner of a match and advances both players.
func (b *Bracket) Record(k Key, winner int) error {
	i, ok := b.index[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, k)
	}

	m := &b.matches[i]
	if m.IsResolved() {
		return fmt.Errorf("%w: %s", ErrMatchAlreadyDecided, k)
	}
	if !m.HasBothPlayers() {
		return fmt.Errorf("%w: %s", ErrMatchNotReady, k)
	}
	if !m.HasPlayer(winner) {
		return fmt.Errorf("%w: player %d in %s", ErrWinnerNotInMatch, winner, k)
	}

	m.Status = bracket.MatchCompleted
	m.WinnerID = utils.Ptr(winner)
	b.changed[i] = true

	b.ResolveByes()
	return nil
}

// ResolveByes fills every slot whose feeder has finished and settles matches
// that can no longer get two players: one player advances on a bye, none
// makes a double bye. It repeats until nothing changes.
func (b *Bracket) ResolveByes() {
	for {
		progressed := false

		for i := range b.matches {
			m := &b.matches[i]
			if m.IsResolved() || m.BracketType == bracket.GrandFinals {
				continue
			}

			a := b.pull(i, bracket.SlotA)
			bs := b.pull(i, bracket.SlotB)
			if a == slotOpen || bs == slotOpen {
				continue
			}

			switch {
			case a == slotFilled && bs == slotFilled:
				continue
			case a == slotFilled:
				m.Status = bracket.MatchCompleted
				m.WinnerID = utils.Ptr(*m.PlayerA)
			case bs == slotFilled:
				m.Status = bracket.MatchCompleted
				m.WinnerID = utils.Ptr(*m.PlayerB)
			default:
				m.Status = bracket.MatchSkipped
			}
			b.changed[i] = true
			progressed = true
		}

		if b.resolveGrandFinals() {
			progressed = true
		}
		if !progressed {
			return
		}
	}
}

// pull copies a finished feeder's player into the slot. A slot is dead when
// its feeder finished without producing anyone for it.
func (b *Bracket) pull(i int, slot bracket.Slot) slotState {
	m := &b.matches[i]
	if m.Player(slot) != nil {
		return slotFilled
	}

	src, ok := b.feeders[Destination{Key: KeyOf(*m), Slot: slot}]
	if !ok {
		return slotDead
	}

	feeder := b.matches[b.index[src.from]]
	o := feeder.Outcome()
	if o.Kind == bracket.OutcomePending {
		return slotOpen
	}

	var player *int
	if src.loser {
		if loser, ok := feeder.Loser(); ok {
			player = utils.Ptr(loser)
		}
	} else if o.Kind == bracket.OutcomeBye || o.Kind == bracket.OutcomeDecided {
		player = utils.Ptr(o.Winner)
	}
	if player == nil {
		return slotDead
	}

	m.SetPlayer(slot, player)
	b.changed[i] = true
	return slotFilled
}

// The reset is only played when the losers bracket champion (slot b) wins
// the finals. Otherwise it is skipped.
func (b *Bracket) resolveGrandFinals() bool {
	fi, ok := b.index[finalsKey]
	if !ok {
		return false
	}
	gi, ok := b.index[grandFinalsKey]
	if !ok {
		return false
	}

	gf := &b.matches[gi]
	if gf.IsResolved() || gf.HasBothPlayers() {
		return false
	}

	finals := b.matches[fi]
	o := finals.Outcome()
	switch o.Kind {
	case bracket.OutcomePending:
		return false
	case bracket.OutcomeDecided:
		if *finals.PlayerB == o.Winner {
			gf.PlayerA = utils.Ptr(*finals.PlayerA)
			gf.PlayerB = utils.Ptr(*finals.PlayerB)
			b.changed[gi] = true
			return false
		}
	}

	gf.Status = bracket.MatchSkipped
	b.changed[gi] = true
	return true
}

// Champion reports the tournament winner once the last match is settled.
func (b *Bracket) Champion() (int, bool) {
	gi, ok := b.index[grandFinalsKey]
	if !ok {
		return 0, false
	}
	gf := b.matches[gi]
	switch o := gf.Outcome(); o.Kind {
	case bracket.OutcomeDecided, bracket.OutcomeBye:
		return o.Winner, true
	case bracket.OutcomeDoubleBye:
		finals, ok := b.Match(finalsKey)
		if !ok {
			return 0, false
		}
		fo := finals.Outcome()
		if fo.Kind == bracket.OutcomeDecided || fo.Kind == bracket.OutcomeBye {
			return fo.Winner, true
		}
	}
	return 0, false
}
