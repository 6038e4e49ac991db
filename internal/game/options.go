package game

import "github.com/lox/holdemrooms/poker"

// TableOption configures a Table during creation.
type TableOption func(*Table)

// WithDeckSource replaces the shuffled deck used for each hand. Tests use it
// with poker.NewStackedDeck to fix hole cards and boards.
func WithDeckSource(fn func() *poker.Deck) TableOption {
	return func(t *Table) {
		t.newDeck = fn
	}
}

// WithSeats seats players in order with the given stacks.
func WithSeats(seats ...SeatSpec) TableOption {
	return func(t *Table) {
		for _, s := range seats {
			t.seats = append(t.seats, &Seat{ID: s.ID, Stack: s.Stack})
		}
	}
}

// SeatSpec describes a seat to add at creation time.
type SeatSpec struct {
	ID    string
	Stack int
}
