package game

import (
	"fmt"
	"maps"

	"github.com/lox/holdemrooms/poker"
)

// RevealedHand is a contesting seat's hole cards and best hand at showdown.
type RevealedHand struct {
	Hole []poker.Card  `json:"hole"`
	Rank poker.HandRank `json:"rank"`
}

// ShowdownResult describes how a hand ended.
type ShowdownResult struct {
	HandNumber  int
	Board       []poker.Card
	Payouts     map[int]int // seat index -> chips won
	Pots        []PotResult
	Hands       map[int]RevealedHand // contesting seats only; empty when uncontested
	Uncontested bool
}

// StartHand shuffles, deals and posts blinds for a new hand. The dealer
// button moves to the next seat with chips.
func (t *Table) StartHand() error {
	if t.inHand {
		return ErrHandInProgress
	}
	t.purgeLeaving()
	if t.ChipPositive() < 2 {
		return ErrNotEnoughPlayers
	}

	t.deck = t.newDeck()
	if t.deck == nil {
		panic("deck source returned nil")
	}
	for _, s := range t.seats {
		s.Bet = 0
		s.Contributed = 0
		s.Hole = nil
		s.dealtIn = s.Stack > 0
		s.Folded = !s.dealtIn
	}
	t.acted = make([]bool, len(t.seats))
	t.handNumber++
	t.inHand = true
	t.street = Preflop
	t.board = nil
	t.pot = 0
	t.result = nil
	t.minRaise = t.cfg.BigBlind

	t.dealer = t.nextLive(t.dealer + 1)
	sb := t.nextLive(t.dealer + 1)
	bb := t.nextLive(sb + 1)
	t.seats[sb].commit(t.cfg.SmallBlind)
	t.seats[bb].commit(t.cfg.BigBlind)
	t.dealHole()

	t.lastAggressor = bb
	t.resetActed(bb)
	t.actor = -1
	t.advance(bb)
	return nil
}

// dealHole deals two cards to each seat in the hand, in seating order.
func (t *Table) dealHole() {
	for _, s := range t.seats {
		if s.dealtIn {
			s.Hole = t.deck.Deal(2)
		}
	}
}

// HandleAction applies an action for the seat at index seat. It returns false
// and leaves the table unchanged when the action is not legal: the hand is
// not running, seat is not the current actor, a check faces a bet, or a
// bet/raise is below the minimum without being all-in.
//
// For bet and raise, amount is the number of chips added to the seat's
// current street bet.
func (t *Table) HandleAction(seat int, a Action, amount int) bool {
	if !t.inHand || seat != t.actor || seat < 0 || seat >= len(t.seats) {
		return false
	}
	s := t.seats[seat]
	if s.Stack == 0 {
		t.acted[seat] = true
		t.advance(seat)
		return true
	}

	toCall := t.maxBet() - s.Bet
	switch a {
	case Fold:
		s.Folded = true
	case Check:
		if toCall > 0 {
			return false
		}
	case Call:
		s.commit(toCall)
	case Bet, Raise:
		if amount <= 0 {
			return false
		}
		minimum := t.cfg.BigBlind
		if toCall > 0 {
			minimum = toCall + t.minRaise
		}
		wager := min(amount, s.Stack)
		if wager < minimum && wager != s.Stack {
			return false
		}
		s.commit(wager)
		if wager > toCall {
			if inc := wager - toCall; inc >= t.minRaise {
				t.minRaise = inc
			}
			t.lastAggressor = seat
			t.resetActed(seat)
		}
	default:
		return false
	}

	t.acted[seat] = true
	t.advance(seat)
	return true
}

// Forfeit folds a seat out of turn, e.g. when its player leaves. Folding the
// current actor is the same as HandleAction with Fold.
func (t *Table) Forfeit(seat int) bool {
	if !t.inHand || seat < 0 || seat >= len(t.seats) {
		return false
	}
	s := t.seats[seat]
	if !s.contesting() {
		return false
	}
	if seat == t.actor {
		return t.HandleAction(seat, Fold, 0)
	}
	s.Folded = true
	switch {
	case t.countContesting() == 1:
		t.finish()
	case t.roundComplete():
		t.nextStreet()
	}
	return true
}

// advance moves play on after seat acted: the hand ends when one seat is
// left, the street closes when the round is complete, otherwise the next
// eligible seat acts.
func (t *Table) advance(seat int) {
	if t.countContesting() == 1 {
		t.finish()
		return
	}
	if t.roundComplete() {
		t.nextStreet()
		return
	}
	next := t.nextEligible(seat + 1)
	if next < 0 || next == seat {
		// Nobody else can act.
		t.nextStreet()
		return
	}
	t.actor = next
}

// nextStreet closes the current street and opens the next one, dealing the
// board out to showdown when fewer than two seats can still bet.
func (t *Table) nextStreet() {
	for {
		t.sweep()
		tr, ok := streetTransitions[t.street]
		if !ok {
			panic(fmt.Sprintf("no transition from %s", t.street))
		}
		t.street = tr.next
		if tr.reveal > 0 {
			t.board = append(t.board, t.deck.Deal(tr.reveal)...)
		}
		t.minRaise = t.cfg.BigBlind
		t.lastAggressor = -1
		t.resetActed(-1)

		if t.street == Showdown {
			t.finish()
			return
		}
		if t.countEligible() >= 2 {
			t.actor = t.nextEligible(t.dealer + 1)
			return
		}
	}
}

// sweep moves street bets into the pot.
func (t *Table) sweep() {
	for _, s := range t.seats {
		t.pot += s.Bet
		s.Bet = 0
	}
}

// finish settles the hand and credits the winners. With a single contesting
// seat no hand is evaluated and nothing is revealed.
func (t *Table) finish() {
	t.sweep()
	contested := t.countContesting() > 1

	entries := make([]PotEntry, len(t.seats))
	hands := make(map[int]RevealedHand)
	for i, s := range t.seats {
		entries[i] = PotEntry{Seat: i, Contributed: s.Contributed, Folded: !s.contesting()}
		if contested && s.contesting() {
			cards := append(t.HoleCards(i), t.board...)
			rank := poker.Evaluate(cards...)
			entries[i].Rank = rank
			hands[i] = RevealedHand{Hole: t.HoleCards(i), Rank: rank}
		}
	}

	settlement := Settle(t.dealer, entries)
	for seat, amount := range settlement.Payouts {
		t.seats[seat].Stack += amount
	}
	t.pot = 0

	t.street = Showdown
	t.actor = -1
	t.lastAggressor = -1
	t.inHand = false
	t.result = &ShowdownResult{
		HandNumber:  t.handNumber,
		Board:       t.Board(),
		Payouts:     maps.Clone(settlement.Payouts),
		Pots:        settlement.Pots,
		Hands:       hands,
		Uncontested: !contested,
	}
}
