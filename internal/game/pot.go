package game

import (
	"slices"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/lox/holdemrooms/poker"
)

// PotEntry is one seat's stake in the hand. Settle expects one entry per seat
// index so that clockwise order can be computed.
type PotEntry struct {
	Seat        int
	Contributed int
	Folded      bool
	Rank        poker.HandRank // ignored for folded seats
}

// PotResult is a main or side pot after settlement.
type PotResult struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
	Winners  []int `json:"winners"`
}

// Settlement is the outcome of Settle.
type Settlement struct {
	Payouts map[int]int
	Pots    []PotResult
}

// Settle splits everything contributed to a hand into tiered pots and awards
// each to the best eligible hands. Tiers are the distinct contribution totals
// of the seats that did not fold; a seat is eligible for every tier its
// contribution reaches. Odd chips from a split go one at a time to the tied
// winners starting with the first seat clockwise from the dealer.
func Settle(dealer int, entries []PotEntry) Settlement {
	out := Settlement{Payouts: make(map[int]int)}

	total := 0
	var live []PotEntry
	for _, e := range entries {
		total += e.Contributed
		if !e.Folded {
			live = append(live, e)
		}
	}
	if total == 0 || len(live) == 0 {
		return out
	}

	if len(live) == 1 {
		seat := live[0].Seat
		out.Payouts[seat] = total
		out.Pots = append(out.Pots, PotResult{Amount: total, Eligible: []int{seat}, Winners: []int{seat}})
		return out
	}

	tiers := treeset.NewWithIntComparator()
	for _, e := range live {
		if e.Contributed > 0 {
			tiers.Add(e.Contributed)
		}
	}

	clockwise := func(a, b int) int {
		n := len(entries)
		return (a-dealer-1+2*n)%n - (b-dealer-1+2*n)%n
	}

	if tiers.Empty() {
		seats := make([]int, 0, len(live))
		for _, e := range live {
			seats = append(seats, e.Seat)
		}
		slices.SortFunc(seats, clockwise)
		out.Payouts[seats[0]] = total
		out.Pots = append(out.Pots, PotResult{Amount: total, Eligible: seats, Winners: seats[:1]})
		return out
	}

	prev := 0
	values := tiers.Values()
	for i, v := range values {
		tier := v.(int)
		pool := 0
		for _, e := range entries {
			pool += min(e.Contributed, tier) - min(e.Contributed, prev)
			if i == len(values)-1 && e.Contributed > tier {
				// Folded chips above every live stake.
				pool += e.Contributed - tier
			}
		}

		var eligible []int
		var best poker.HandRank
		var winners []int
		for _, e := range live {
			if e.Contributed < tier {
				continue
			}
			eligible = append(eligible, e.Seat)
			switch c := poker.Compare(e.Rank, best); {
			case len(winners) == 0 || c > 0:
				best = e.Rank
				winners = []int{e.Seat}
			case c == 0:
				winners = append(winners, e.Seat)
			}
		}

		slices.SortFunc(winners, clockwise)
		share, rem := pool/len(winners), pool%len(winners)
		for j, w := range winners {
			out.Payouts[w] += share
			if j < rem {
				out.Payouts[w]++
			}
		}
		slices.Sort(eligible)
		out.Pots = append(out.Pots, PotResult{Amount: pool, Eligible: eligible, Winners: winners})
		prev = tier
	}
	return out
}
