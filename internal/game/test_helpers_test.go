package game

import (
	"fmt"
	rand "math/rand/v2"
	"testing"

	"github.com/lox/holdemrooms/poker"
)

var testBlinds = TableConfig{SmallBlind: 50, BigBlind: 100}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// newTestTable seats s0, s1, ... with the given stacks. When deck is
// non-empty every hand is dealt from a deck stacked with those cards.
func newTestTable(t *testing.T, deck string, stacks ...int) *Table {
	t.Helper()

	var opts []TableOption
	if deck != "" {
		cards := poker.MustParseCards(deck)
		opts = append(opts, WithDeckSource(func() *poker.Deck {
			return poker.NewStackedDeck(cards...)
		}))
	}
	for i, stack := range stacks {
		opts = append(opts, WithSeats(SeatSpec{ID: fmt.Sprintf("s%d", i), Stack: stack}))
	}
	return NewTable(testBlinds, testRNG(), opts...)
}

// act applies an action and fails the test if it is rejected.
func act(t *testing.T, tbl *Table, seat int, a Action, amount int) {
	t.Helper()
	if !tbl.HandleAction(seat, a, amount) {
		t.Fatalf("action %s %d by seat %d rejected (actor %d, street %s)", a, amount, seat, tbl.CurrentActor(), tbl.Street())
	}
}
