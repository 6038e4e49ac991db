package game

import (
	"fmt"
	"strings"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return [...]string{"PREFLOP", "FLOP", "TURN", "RIVER", "SHOWDOWN"}[s]
}

// MarshalText encodes the street by name.
func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// transition is the outcome of closing the betting on a street.
type transition struct {
	next   Street
	reveal int // community cards dealt on entering next
}

var streetTransitions = map[Street]transition{
	Preflop: {next: Flop, reveal: 3},
	Flop:    {next: Turn, reveal: 1},
	Turn:    {next: River, reveal: 1},
	River:   {next: Showdown, reveal: 0},
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
)

func (a Action) String() string {
	if a < Fold || a > Raise {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "bet", "raise"}[a]
}

// ParseAction parses the wire name of an action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// maxBet returns the largest current-street bet on the table.
func (t *Table) maxBet() int {
	m := 0
	for _, s := range t.seats {
		m = max(m, s.Bet)
	}
	return m
}

// roundComplete reports whether the betting on the current street is closed:
// every eligible seat has matched the largest eligible bet and has acted
// since the last aggression. The aggressor itself counts as having acted, so
// this is the "action returned to the aggressor" rule.
func (t *Table) roundComplete() bool {
	target := -1
	for _, s := range t.seats {
		if s.eligible() {
			target = max(target, s.Bet)
		}
	}
	for i, s := range t.seats {
		if !s.eligible() {
			continue
		}
		if s.Bet != target || !t.acted[i] {
			return false
		}
	}
	return true
}

// resetActed clears the acted-since-aggression set, optionally seeding it
// with the aggressor.
func (t *Table) resetActed(aggressor int) {
	for i := range t.acted {
		t.acted[i] = false
	}
	if aggressor >= 0 {
		t.acted[aggressor] = true
	}
}

// nextEligible returns the first eligible seat at or after from (wrapping),
// or -1 when there is none.
func (t *Table) nextEligible(from int) int {
	n := len(t.seats)
	for i := range n {
		pos := (from + i) % n
		if t.seats[pos].eligible() {
			return pos
		}
	}
	return -1
}

// nextLive returns the first seat at or after from (wrapping) that is dealt
// into the current hand, or -1.
func (t *Table) nextLive(from int) int {
	n := len(t.seats)
	for i := range n {
		pos := (from + i) % n
		if t.seats[pos].dealtIn {
			return pos
		}
	}
	return -1
}

func (t *Table) countEligible() int {
	n := 0
	for _, s := range t.seats {
		if s.eligible() {
			n++
		}
	}
	return n
}

func (t *Table) countContesting() int {
	n := 0
	for _, s := range t.seats {
		if s.contesting() {
			n++
		}
	}
	return n
}
