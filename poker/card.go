package poker

import (
	"fmt"
	"strings"
)

// Suit identifies one of the four suits.
type Suit uint8

// Rank is a card rank from Two (2) to Ace (14). Aces are high except in the
// wheel straight.
type Rank uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// Card packs a rank and a suit into a single byte: rank<<2 | suit.
// The zero value is not a valid card.
type Card uint8

// NewCard creates a card from rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card(uint8(rank)<<2 | uint8(suit)&3)
}

// Rank returns the rank of the card (2-14).
func (c Card) Rank() Rank {
	return Rank(c >> 2)
}

// Suit returns the suit of the card.
func (c Card) Suit() Suit {
	return Suit(c & 3)
}

// Valid reports whether c encodes one of the 52 standard cards.
func (c Card) Valid() bool {
	r := c.Rank()
	return r >= Two && r <= Ace
}

// String returns the two character form, e.g. "As", "Th".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string(rankChars[c.Rank()-Two]) + string(suitChars[c.Suit()])
}

// MarshalText encodes the card in its two character form.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card: %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText parses the two character form.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a string like "As" into a Card. "10" is accepted as an
// alias for "T".
func ParseCard(s string) (Card, error) {
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card string: %q", s)
	}

	ri := strings.IndexByte(rankChars, upper(s[0]))
	if ri < 0 {
		return 0, fmt.Errorf("invalid rank: %c", s[0])
	}
	si := strings.IndexByte(suitChars, lower(s[1]))
	if si < 0 {
		return 0, fmt.Errorf("invalid suit: %c", s[1])
	}

	return NewCard(Two+Rank(ri), Suit(si)), nil
}

// ParseCards parses a whitespace separated list of cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on malformed input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}
