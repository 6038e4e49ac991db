package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/lox/holdemrooms/poker"
)

// TableConfig holds the forced bet sizes.
type TableConfig struct {
	SmallBlind int
	BigBlind   int
}

// Table is the per-room betting engine. Seating order is fixed: seats are
// appended by AddSeat and only removed between hands.
type Table struct {
	cfg     TableConfig
	rng     *rand.Rand
	newDeck func() *poker.Deck

	seats  []*Seat
	dealer int

	// Hand-scoped state, re-initialised by StartHand.
	handNumber    int
	inHand        bool
	street        Street
	deck          *poker.Deck
	board         []poker.Card
	pot           int
	actor         int
	lastAggressor int
	minRaise      int
	acted         []bool
	result        *ShowdownResult
}

// NewTable creates an empty table. The rng drives deck shuffles and is
// required.
func NewTable(cfg TableConfig, rng *rand.Rand, opts ...TableOption) *Table {
	if rng == nil {
		panic("rng is required for table creation")
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		panic(fmt.Sprintf("invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind))
	}

	t := &Table{
		cfg:           cfg,
		rng:           rng,
		dealer:        -1,
		street:        Preflop,
		actor:         -1,
		lastAggressor: -1,
		minRaise:      cfg.BigBlind,
	}
	t.newDeck = func() *poker.Deck { return poker.NewDeck(t.rng) }

	for _, opt := range opts {
		opt(t)
	}
	t.acted = make([]bool, len(t.seats))
	return t
}

// Config returns the blind structure.
func (t *Table) Config() TableConfig {
	return t.cfg
}

// AddSeat appends a seat. A seat added while a hand is running sits out
// until the next hand.
func (t *Table) AddSeat(id string, stack int) error {
	if t.SeatIndex(id) >= 0 {
		return fmt.Errorf("add seat %q: %w", id, ErrSeatTaken)
	}
	if stack < 0 {
		return fmt.Errorf("add seat %q: negative stack %d", id, stack)
	}
	t.seats = append(t.seats, &Seat{ID: id, Stack: stack, Folded: t.inHand})
	t.acted = append(t.acted, false)
	return nil
}

// RemoveSeat removes a seat between hands. During a hand only a folded seat
// may be removed; it keeps its index until the next StartHand so that chips
// it already put in stay in the pot.
func (t *Table) RemoveSeat(id string) error {
	i := t.SeatIndex(id)
	if i < 0 {
		return fmt.Errorf("remove seat %q: %w", id, ErrSeatNotFound)
	}
	if t.inHand {
		if !t.seats[i].Folded {
			return fmt.Errorf("remove seat %q: %w", id, ErrHandInProgress)
		}
		t.seats[i].leaving = true
		return nil
	}
	t.removeAt(i)
	return nil
}

func (t *Table) removeAt(i int) {
	t.seats = slices.Delete(t.seats, i, i+1)
	t.acted = slices.Delete(t.acted, i, i+1)
	// Keep the button on the seat before the removed one so the next hand
	// moves it to the seat that followed.
	if i <= t.dealer {
		t.dealer--
	}
}

// purgeLeaving drops seats that left mid-hand.
func (t *Table) purgeLeaving() {
	for i := len(t.seats) - 1; i >= 0; i-- {
		if t.seats[i].leaving {
			t.removeAt(i)
		}
	}
}

// SeatIndex returns the index of the seat with the given ID, or -1.
func (t *Table) SeatIndex(id string) int {
	for i, s := range t.seats {
		if s.ID == id && !s.leaving {
			return i
		}
	}
	return -1
}

// NumSeats returns the number of seats, including any that are leaving.
func (t *Table) NumSeats() int {
	return len(t.seats)
}

// SeatID returns the ID of the seat at index i.
func (t *Table) SeatID(i int) string {
	return t.seats[i].ID
}

// Stack returns the stack of the seat at index i.
func (t *Table) Stack(i int) int {
	return t.seats[i].Stack
}

// ChipPositive counts seats that could be dealt into the next hand.
func (t *Table) ChipPositive() int {
	n := 0
	for _, s := range t.seats {
		if s.Stack > 0 && !s.leaving {
			n++
		}
	}
	return n
}

// InHand reports whether a hand is being played.
func (t *Table) InHand() bool {
	return t.inHand
}

// HandNumber returns the number of hands started on this table.
func (t *Table) HandNumber() int {
	return t.handNumber
}

// Street returns the current street.
func (t *Table) Street() Street {
	return t.street
}

// CurrentActor returns the seat index expected to act, or -1.
func (t *Table) CurrentActor() int {
	return t.actor
}

// Dealer returns the dealer seat index, or -1 before the first hand.
func (t *Table) Dealer() int {
	return t.dealer
}

// Pot returns the chips swept off the betting line.
func (t *Table) Pot() int {
	return t.pot
}

// MinRaise returns the current minimum raise increment.
func (t *Table) MinRaise() int {
	return t.minRaise
}

// Board returns a copy of the community cards.
func (t *Table) Board() []poker.Card {
	return slices.Clone(t.board)
}

// HoleCards returns a copy of a seat's hole cards.
func (t *Table) HoleCards(seat int) []poker.Card {
	if seat < 0 || seat >= len(t.seats) {
		return nil
	}
	return slices.Clone(t.seats[seat].Hole)
}

// Chips returns stacks plus pot plus outstanding bets. It is constant for
// the duration of a hand.
func (t *Table) Chips() int {
	total := t.pot
	for _, s := range t.seats {
		total += s.Stack + s.Bet
	}
	return total
}

// ToCall returns how many chips the seat needs to match the current bet.
func (t *Table) ToCall(seat int) int {
	if seat < 0 || seat >= len(t.seats) {
		return 0
	}
	return min(t.maxBet()-t.seats[seat].Bet, t.seats[seat].Stack)
}

// Result returns the outcome of the last completed hand, or nil.
func (t *Table) Result() *ShowdownResult {
	return t.result
}

// SeatState is the public view of a seat.
type SeatState struct {
	ID     string `json:"id"`
	Stack  int    `json:"stack"`
	Bet    int    `json:"bet"`
	Folded bool   `json:"folded"`
	AllIn  bool   `json:"allIn"`
}

// State is a snapshot of everything public at the table. It never contains
// hole cards.
type State struct {
	HandNumber        int          `json:"handNumber"`
	Seats             []SeatState  `json:"seats"`
	CommunityCards    []poker.Card `json:"communityCards"`
	Pot               int          `json:"pot"`
	CurrentActorSeat  int          `json:"currentActorSeat"`
	DealerSeat        int          `json:"dealerSeat"`
	Street            Street       `json:"street"`
	MinRaiseIncrement int          `json:"minRaiseIncrement"`
	InHand            bool         `json:"inHand"`
}

// Snapshot returns the public state. It does not mutate the table.
func (t *Table) Snapshot() State {
	st := State{
		HandNumber:        t.handNumber,
		Seats:             make([]SeatState, 0, len(t.seats)),
		CommunityCards:    slices.Clone(t.board),
		Pot:               t.pot,
		CurrentActorSeat:  t.actor,
		DealerSeat:        t.dealer,
		Street:            t.street,
		MinRaiseIncrement: t.minRaise,
		InHand:            t.inHand,
	}
	if st.CommunityCards == nil {
		st.CommunityCards = []poker.Card{}
	}
	for _, s := range t.seats {
		st.Seats = append(st.Seats, SeatState{
			ID:     s.ID,
			Stack:  s.Stack,
			Bet:    s.Bet,
			Folded: s.Folded,
			AllIn:  s.AllIn(),
		})
	}
	return st
}
