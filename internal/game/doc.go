// Package game implements the Texas Hold'em betting engine for a single
// table: dealing, blinds, the four-street betting protocol and pot
// settlement including side pots.
//
// The main type is Table. It owns the ordered seats of a room and the
// hand-scoped state (deck, board, bets, pot) that StartHand re-initialises
// for every hand. A Table is not safe for concurrent use; callers serialise
// access (see package room).
//
// # Basic Usage
//
//	t := game.NewTable(game.Config{SmallBlind: 50, BigBlind: 100}, rng)
//	_ = t.AddSeat("alice", 2000)
//	_ = t.AddSeat("bob", 2000)
//	_ = t.StartHand()
//	t.HandleAction(t.Actor(), game.Call, 0)
//
// HandleAction reports whether the action was accepted; illegal actions
// leave the table untouched. When the hand reaches Showdown, Result holds
// the payouts and revealed hands.
//
// # Deterministic Testing
//
// Decks come from the *rand.Rand passed to NewTable. Tests that need exact
// boards can inject a deck source:
//
//	t := game.NewTable(cfg, rng, game.WithDeckSource(func() *poker.Deck {
//	    return poker.NewStackedDeck(cards...)
//	}))
package game
