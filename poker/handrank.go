package poker

import (
	"fmt"
	"strings"
)

// Category enumerates the categories of poker hands ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush // ace-high straight flush, top of the straight flush band
)

var categoryNames = [...]string{
	HighCard:      "High Card",
	OnePair:       "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (c Category) String() string {
	if c < HighCard || c > RoyalFlush {
		return "Unknown"
	}
	return categoryNames[c]
}

// HandRank is the strength of a five card hand: a category plus the kicker
// ranks that break ties inside it, most significant first.
type HandRank struct {
	Category Category `json:"category"`
	Kickers  []Rank   `json:"kickers"`
}

// Compare orders two hand ranks: category first, then kickers position by
// position. It returns -1, 0 or +1.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return -1
		}
		return 1
	}
	n := min(len(a.Kickers), len(b.Kickers))
	for i := range n {
		if a.Kickers[i] != b.Kickers[i] {
			if a.Kickers[i] < b.Kickers[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a.Kickers) < len(b.Kickers):
		return -1
	case len(a.Kickers) > len(b.Kickers):
		return 1
	}
	return 0
}

// Beats reports whether hr is strictly stronger than other.
func (hr HandRank) Beats(other HandRank) bool {
	return Compare(hr, other) > 0
}

// String returns a human-readable hand description, e.g. "Full House [K 7]".
func (hr HandRank) String() string {
	if len(hr.Kickers) == 0 {
		return hr.Category.String()
	}
	parts := make([]string, len(hr.Kickers))
	for i, r := range hr.Kickers {
		parts[i] = r.String()
	}
	return fmt.Sprintf("%s [%s]", hr.Category, strings.Join(parts, " "))
}

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}
