package poker

import (
	"fmt"
	"slices"
)

// Evaluate returns the best HandRank achievable by any five card subset of
// cards. It accepts five to seven cards; anything else is a caller bug and
// panics.
func Evaluate(cards ...Card) HandRank {
	n := len(cards)
	if n < 5 || n > 7 {
		panic(fmt.Sprintf("poker: evaluate needs 5 to 7 cards, got %d", n))
	}

	var best HandRank
	var combo [5]Card
	// At most C(7,5) = 21 subsets.
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						combo = [5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						if score := score5(combo); best.Category == 0 || score.Beats(best) {
							best = score
						}
					}
				}
			}
		}
	}
	return best
}

// rankGroup is a rank together with how many times it appears in a hand.
type rankGroup struct {
	rank  Rank
	count int
}

// score5 ranks exactly five cards.
func score5(cards [5]Card) HandRank {
	var counts [Ace + 1]int
	flush := true
	for i, c := range cards {
		counts[c.Rank()]++
		if i > 0 && c.Suit() != cards[0].Suit() {
			flush = false
		}
	}

	// Group by multiplicity, biggest group first, higher rank first within
	// equal multiplicity. The group order is the kicker order for every
	// category.
	groups := make([]rankGroup, 0, 5)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	slices.SortStableFunc(groups, func(x, y rankGroup) int {
		return y.count - x.count
	})

	kickers := make([]Rank, len(groups))
	for i, g := range groups {
		kickers[i] = g.rank
	}

	straightTop := Rank(0)
	if len(groups) == 5 {
		// groups is sorted by rank descending when every count is 1.
		switch {
		case kickers[0]-kickers[4] == 4:
			straightTop = kickers[0]
		case kickers[0] == Ace && kickers[1] == Five:
			straightTop = Five // wheel: A-2-3-4-5, the ace plays low
		}
	}

	switch {
	case straightTop > 0 && flush:
		if straightTop == Ace {
			return HandRank{Category: RoyalFlush, Kickers: []Rank{Ace}}
		}
		return HandRank{Category: StraightFlush, Kickers: []Rank{straightTop}}
	case groups[0].count == 4:
		return HandRank{Category: FourOfAKind, Kickers: kickers}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{Category: FullHouse, Kickers: kickers}
	case flush:
		return HandRank{Category: Flush, Kickers: kickers}
	case straightTop > 0:
		return HandRank{Category: Straight, Kickers: []Rank{straightTop}}
	case groups[0].count == 3:
		return HandRank{Category: ThreeOfAKind, Kickers: kickers}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{Category: TwoPair, Kickers: kickers}
	case groups[0].count == 2:
		return HandRank{Category: OnePair, Kickers: kickers}
	default:
		return HandRank{Category: HighCard, Kickers: kickers}
	}
}
