package game

import "github.com/lox/holdemrooms/poker"

// Seat is one player's position at the table.
type Seat struct {
	ID          string
	Stack       int
	Bet         int // current street
	Contributed int // whole hand, including Bet
	Folded      bool
	Hole        []poker.Card

	dealtIn bool
	leaving bool
}

// AllIn reports whether the seat has committed its whole stack and is still
// contesting the hand.
func (s *Seat) AllIn() bool {
	return s.dealtIn && !s.Folded && s.Stack == 0
}

// eligible seats may still act on the current street.
func (s *Seat) eligible() bool {
	return s.dealtIn && !s.Folded && s.Stack > 0
}

// contesting seats can still win chips at showdown.
func (s *Seat) contesting() bool {
	return s.dealtIn && !s.Folded
}

// commit moves chips from the stack onto the betting line, clamped to the
// stack.
func (s *Seat) commit(amount int) int {
	amount = min(amount, s.Stack)
	s.Stack -= amount
	s.Bet += amount
	s.Contributed += amount
	return amount
}
