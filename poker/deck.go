package poker

import (
	"fmt"
	rand "math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck represents a standard 52-card deck
type Deck struct {
	cards [DeckSize]Card // Fixed size array
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a new shuffled deck with explicit RNG. A nil RNG is a
// programming error: no hand can be dealt without a random source.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("poker: deck requires a random source")
	}
	d := &Deck{rng: rng}

	// Create all 52 cards
	i := 0
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// NewStackedDeck returns a deck that deals the given cards first, in order,
// followed by the remaining cards in a fixed order. Used to set up exact
// boards in tests and replays.
func NewStackedDeck(top ...Card) *Deck {
	d := &Deck{}
	seen := make(map[Card]bool, len(top))
	i := 0
	for _, c := range top {
		if !c.Valid() || seen[c] {
			panic(fmt.Sprintf("poker: invalid or duplicate stacked card %v", c))
		}
		seen[c] = true
		d.cards[i] = c
		i++
	}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			if c := NewCard(rank, suit); !seen[c] {
				d.cards[i] = c
				i++
			}
		}
	}
	return d
}

// Shuffle shuffles the undealt deck using Fisher-Yates. Every permutation
// is equally likely given a uniform source.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck. Running out of cards mid-hand cannot
// happen with at most six seats, so exhaustion panics.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		panic(fmt.Sprintf("poker: deck exhausted: want %d cards, %d remaining", n, d.Remaining()))
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
