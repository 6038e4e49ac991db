// Package room runs poker rooms. A Room owns one game.Table and serialises
// every mutation of it (player actions, joins, leaves, turn timeouts and the
// delayed start of the next hand) behind a single mutex. Scheduled work is
// done with quartz timers whose handles are checked for identity when they
// fire, so a timeout that loses a race with a real action is a no-op.
package room

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdemrooms/internal/game"
	"github.com/lox/holdemrooms/internal/gameid"
	"github.com/lox/holdemrooms/internal/protocol"
	"github.com/lox/holdemrooms/internal/randutil"
	"github.com/lox/holdemrooms/internal/relay"
	"github.com/lox/holdemrooms/poker"
)

// Config holds the per-room game settings.
type Config struct {
	SmallBlind    int
	BigBlind      int
	StackMultiple int // starting stack in big blinds
	MaxSeats      int
	TurnTimeout   time.Duration
	ShowdownDelay time.Duration
}

// DefaultConfig returns blinds of 50/100, 20 big blind stacks, six seats, a
// 30 second turn clock and a 5 second pause after each hand.
func DefaultConfig() Config {
	return Config{
		SmallBlind:    50,
		BigBlind:      100,
		StackMultiple: 20,
		MaxSeats:      6,
		TurnTimeout:   30 * time.Second,
		ShowdownDelay: 5 * time.Second,
	}
}

// StartingStack is the number of chips each seat joins with.
func (c Config) StartingStack() int {
	return c.StackMultiple * c.BigBlind
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SmallBlind <= 0 {
		c.SmallBlind = d.SmallBlind
	}
	if c.BigBlind <= 0 {
		c.BigBlind = d.BigBlind
	}
	if c.StackMultiple <= 0 {
		c.StackMultiple = d.StackMultiple
	}
	if c.MaxSeats <= 0 {
		c.MaxSeats = d.MaxSeats
	}
	if c.TurnTimeout <= 0 {
		c.TurnTimeout = d.TurnTimeout
	}
	if c.ShowdownDelay <= 0 {
		c.ShowdownDelay = d.ShowdownDelay
	}
	return c
}

// Option configures a Room.
type Option func(*Room)

// WithClock sets the clock used for turn timeouts and the showdown delay.
func WithClock(clk quartz.Clock) Option {
	return func(r *Room) { r.clk = clk }
}

// WithSink sets where room events are published.
func WithSink(sink relay.Sink) Option {
	return func(r *Room) { r.sink = sink }
}

// WithLogger sets the parent logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Room) { r.logger = logger }
}

// WithRNG sets the random source for deck shuffles.
func WithRNG(rng *rand.Rand) Option {
	return func(r *Room) { r.rng = rng }
}

// WithTableOptions passes options through to game.NewTable.
func WithTableOptions(opts ...game.TableOption) Option {
	return func(r *Room) { r.tableOpts = append(r.tableOpts, opts...) }
}

// WithOnClose registers a callback run once when the room closes. It is
// called with the room lock held.
func WithOnClose(fn func(id string)) Option {
	return func(r *Room) { r.onClose = fn }
}

// Room is one table and its players.
type Room struct {
	mu sync.Mutex

	id      string
	creator string
	cfg     Config

	clk       quartz.Clock
	sink      relay.Sink
	logger    *log.Logger
	rng       *rand.Rand
	tableOpts []game.TableOption
	onClose   func(string)

	table *game.Table
	turn  *turnClock // pending auto-fold
	next  *turnClock // pending start of the next hand

	handID   string
	started  bool
	finished bool
	closed   bool
}

// New creates a room with the creator seated.
func New(id, creator string, cfg Config, opts ...Option) *Room {
	r := &Room{
		id:      id,
		creator: creator,
		cfg:     cfg.withDefaults(),
		clk:     quartz.NewReal(),
		sink:    relay.Discard,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = randutil.NewSecure()
	}
	r.logger = r.logger.WithPrefix("room").With("room", id)
	r.turn = newTurnClock(r.clk, "turn")
	r.next = newTurnClock(r.clk, "next-hand")
	r.table = game.NewTable(game.TableConfig{
		SmallBlind: r.cfg.SmallBlind,
		BigBlind:   r.cfg.BigBlind,
	}, r.rng, r.tableOpts...)

	if err := r.table.AddSeat(creator, r.cfg.StartingStack()); err != nil {
		panic(fmt.Sprintf("seat creator: %v", err))
	}
	return r
}

// ID returns the room code.
func (r *Room) ID() string { return r.id }

// Creator returns the ID of the player who created the room.
func (r *Room) Creator() string { return r.creator }

// Config returns the room settings.
func (r *Room) Config() Config { return r.cfg }

// Players returns the seated player IDs in seating order.
func (r *Room) Players() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playersLocked()
}

func (r *Room) playersLocked() []string {
	var ids []string
	for i := range r.table.NumSeats() {
		id := r.table.SeatID(i)
		if r.table.SeatIndex(id) == i {
			ids = append(ids, id)
		}
	}
	return ids
}

// Started reports whether the first hand has been dealt.
func (r *Room) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Finished reports whether the game ended with fewer than two players
// holding chips.
func (r *Room) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

// Closed reports whether the room has been closed.
func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Join seats a player with the starting stack. A player joining mid-hand is
// dealt in from the next hand. The room starts itself when the last seat is
// filled.
func (r *Room) Join(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkOpenLocked(); err != nil {
		return err
	}
	if len(r.playersLocked()) >= r.cfg.MaxSeats {
		return fmt.Errorf("join %q: %w", playerID, ErrRoomFull)
	}
	if err := r.table.AddSeat(playerID, r.cfg.StartingStack()); err != nil {
		return err
	}
	r.logger.Info("Player joined", "player", playerID, "players", len(r.playersLocked()))
	r.publishStateLocked()

	if !r.started && len(r.playersLocked()) == r.cfg.MaxSeats {
		r.logger.Info("Room full, starting game")
		if err := r.startHandLocked(); err != nil {
			r.logger.Error("Failed to auto-start game", "error", err)
		}
	}
	return nil
}

// Leave removes a player. If the player is in the hand their cards are
// folded first. The creator leaving closes the room.
func (r *Room) Leave(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	idx := r.table.SeatIndex(playerID)
	if idx < 0 {
		return fmt.Errorf("leave %q: %w", playerID, ErrSeatNotFound)
	}
	if playerID == r.creator {
		r.logger.Info("Creator left, closing room", "player", playerID)
		r.closeLocked("creator left")
		return nil
	}

	wasInHand := r.table.InHand()
	actor, street := r.table.CurrentActor(), r.table.Street()
	if wasInHand && r.table.Forfeit(idx) {
		r.logger.Info("Player folded on leaving", "player", playerID)
	}
	if wasInHand && !r.table.InHand() {
		// Report the result while seat indexes still match it.
		r.publishStateLocked()
		r.turn.cancel()
		r.handEndedLocked()
		wasInHand = false
	}
	if err := r.table.RemoveSeat(playerID); err != nil {
		return err
	}
	r.logger.Info("Player left", "player", playerID, "players", len(r.playersLocked()))

	moved := r.table.CurrentActor() != actor || r.table.Street() != street
	if moved {
		r.turn.cancel()
	}
	r.afterMutationLocked(wasInHand, moved)
	return nil
}

// Start begins the game on behalf of the creator. At least two players must
// be seated.
func (r *Room) Start(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkOpenLocked(); err != nil {
		return err
	}
	if playerID != r.creator {
		return ErrNotCreator
	}
	if r.started {
		return ErrStarted
	}
	return r.startHandLocked()
}

// StartHand deals a new hand. It requires at least two seats with chips and
// no hand in progress.
func (r *Room) StartHand() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkOpenLocked(); err != nil {
		return err
	}
	return r.startHandLocked()
}

func (r *Room) checkOpenLocked() error {
	switch {
	case r.closed:
		return ErrRoomClosed
	case r.finished:
		return ErrGameOver
	}
	return nil
}

func (r *Room) startHandLocked() error {
	if r.table.InHand() {
		return ErrHandInProgress
	}
	r.next.cancel()
	if err := r.table.StartHand(); err != nil {
		return fmt.Errorf("start hand: %w", err)
	}
	r.started = true
	r.handID = gameid.NewHandID()
	r.logger.Info("Hand started",
		"hand", r.table.HandNumber(),
		"handID", r.handID,
		"dealer", r.table.SeatID(r.table.Dealer()))

	for i := range r.table.NumSeats() {
		cards := r.table.HoleCards(i)
		if len(cards) == 0 {
			continue
		}
		id := r.table.SeatID(i)
		r.publishLocked(protocol.MessageTypeHoleCards, id, protocol.HoleCardsData{
			RoomID:     r.id,
			HandNumber: r.table.HandNumber(),
			PlayerID:   id,
			Cards:      cards,
		})
	}
	r.afterMutationLocked(true, true)
	return nil
}

// HandleAction applies a player's action. It returns false if the action was
// rejected; rejected actions publish nothing.
func (r *Room) HandleAction(playerID string, a game.Action, amount int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	idx := r.table.SeatIndex(playerID)
	if idx < 0 {
		return false
	}
	return r.applyLocked(idx, a, amount)
}

func (r *Room) applyLocked(seat int, a game.Action, amount int) bool {
	if !r.table.HandleAction(seat, a, amount) {
		r.logger.Debug("Rejected action", "player", r.table.SeatID(seat), "action", a, "amount", amount)
		return false
	}
	r.logger.Debug("Action", "player", r.table.SeatID(seat), "action", a, "amount", amount, "street", r.table.Street())
	r.turn.cancel()
	r.afterMutationLocked(true, true)
	return true
}

// afterMutationLocked publishes the new state and schedules what comes next:
// the turn clock while the hand runs, the next hand once it has ended.
func (r *Room) afterMutationLocked(wasInHand, rearm bool) {
	r.publishStateLocked()
	if r.table.InHand() {
		if rearm {
			r.turn.arm(r.cfg.TurnTimeout, r.onTurnTimeout)
		}
		return
	}
	if wasInHand {
		r.turn.cancel()
		r.handEndedLocked()
	}
}

// onTurnTimeout folds the current actor if t is still the live turn timer.
func (r *Room) onTurnTimeout(t *Timer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.turn.claim(t) || r.closed || !r.table.InHand() {
		return
	}
	seat := r.table.CurrentActor()
	id := r.table.SeatID(seat)
	r.logger.Info("Turn timed out, folding", "player", id, "timeout", r.cfg.TurnTimeout)
	r.publishLocked(protocol.MessageTypeActionTimeout, "", protocol.ActionTimeoutData{
		RoomID:     r.id,
		PlayerID:   id,
		HandNumber: r.table.HandNumber(),
		Action:     game.Fold.String(),
	})
	r.applyLocked(seat, game.Fold, 0)
}

func (r *Room) handEndedLocked() {
	res := r.table.Result()
	if res != nil {
		r.publishLocked(protocol.MessageTypeShowdownResult, "", r.showdownLocked(res))
		r.logger.Info("Hand complete", "hand", res.HandNumber, "uncontested", res.Uncontested, "winnings", res.Payouts)
	}
	r.next.arm(r.cfg.ShowdownDelay, r.onNextHand)
}

// onNextHand starts the next hand, or ends the game when fewer than two
// players have chips.
func (r *Room) onNextHand(t *Timer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.next.claim(t) || r.closed || r.finished || r.table.InHand() {
		return
	}
	if r.table.ChipPositive() < 2 {
		r.finishLocked()
		return
	}
	if err := r.startHandLocked(); err != nil {
		r.logger.Error("Failed to start next hand", "error", err)
	}
}

func (r *Room) finishLocked() {
	r.finished = true
	r.turn.cancel()
	r.next.cancel()

	data := protocol.GameOverData{RoomID: r.id, Stacks: make(map[string]int)}
	for _, id := range r.playersLocked() {
		stack := r.table.Stack(r.table.SeatIndex(id))
		data.Stacks[id] = stack
		if stack > 0 {
			data.Winner = id
		}
	}
	r.logger.Info("Game over", "winner", data.Winner)
	r.publishStateLocked()
	r.publishLocked(protocol.MessageTypeGameOver, "", data)
}

// Close shuts the room down, cancelling pending timers.
func (r *Room) Close(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked(reason)
}

func (r *Room) closeLocked(reason string) {
	if r.closed {
		return
	}
	r.closed = true
	r.turn.cancel()
	r.next.cancel()
	r.logger.Info("Room closed", "reason", reason)
	r.publishLocked(protocol.MessageTypeRoomClosed, "", protocol.RoomClosedData{RoomID: r.id, Reason: reason})
	if r.onClose != nil {
		r.onClose(r.id)
	}
}

// State returns the public snapshot of the room.
func (r *Room) State() protocol.StateUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

// HoleCards returns a player's cards for the current or last hand.
func (r *Room) HoleCards(playerID string) ([]poker.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.table.SeatIndex(playerID)
	if idx < 0 {
		return nil, fmt.Errorf("hole cards %q: %w", playerID, ErrSeatNotFound)
	}
	return r.table.HoleCards(idx), nil
}

// pendingTurn exposes the live turn timer handle for tests.
func (r *Room) pendingTurn() *Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.turn.current()
}

func (r *Room) publishStateLocked() {
	r.publishLocked(protocol.MessageTypeStateUpdate, "", r.stateLocked())
}

func (r *Room) publishLocked(typ protocol.MessageType, recipient string, data any) {
	r.sink.Publish(r.id, protocol.Event{
		Type:      typ,
		RoomID:    r.id,
		Recipient: recipient,
		Data:      data,
		Timestamp: r.clk.Now(),
	})
}
