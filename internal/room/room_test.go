package room

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemrooms/internal/game"
	"github.com/lox/holdemrooms/internal/protocol"
	"github.com/lox/holdemrooms/internal/randutil"
	"github.com/lox/holdemrooms/poker"
)

type recorder struct {
	mu     sync.Mutex
	events []protocol.Event
}

func (r *recorder) Publish(_ string, ev protocol.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) ofType(t protocol.MessageType) []protocol.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []protocol.Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// newTestRoom creates a room with players seated in order; the first is the
// creator. When deck is non-empty every hand is dealt from it.
func newTestRoom(t *testing.T, clk quartz.Clock, deck string, players ...string) (*Room, *recorder) {
	t.Helper()

	rec := &recorder{}
	opts := []Option{
		WithClock(clk),
		WithSink(rec),
		WithLogger(testLogger()),
		WithRNG(randutil.New(42)),
	}
	if deck != "" {
		cards := poker.MustParseCards(deck)
		opts = append(opts, WithTableOptions(game.WithDeckSource(func() *poker.Deck {
			return poker.NewStackedDeck(cards...)
		})))
	}
	r := New("testroom", players[0], DefaultConfig(), opts...)
	for _, p := range players[1:] {
		require.NoError(t, r.Join(p))
	}
	return r, rec
}

func seatByID(st protocol.StateUpdate, id string) protocol.SeatView {
	for _, s := range st.Seats {
		if s.ID == id {
			return s
		}
	}
	return protocol.SeatView{}
}

func TestTurnClockArmReplacesPrevious(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	c := newTurnClock(mClock, "turn")
	fired := make(chan *Timer, 2)
	fire := func(tm *Timer) { fired <- tm }

	t1 := c.arm(10*time.Second, fire)
	t2 := c.arm(10*time.Second, fire)
	require.NotSame(t, t1, t2)
	require.Same(t, t2, c.current())

	mClock.Advance(10 * time.Second).MustWait(testContext(t))
	require.Len(t, fired, 1)
	assert.Same(t, t2, <-fired, "only the latest handle fires")

	assert.False(t, c.claim(t1))
	assert.True(t, c.claim(t2))
	assert.False(t, c.claim(t2), "a handle is claimed at most once")
	assert.Nil(t, c.current())

	c.arm(time.Second, fire)
	c.cancel()
	c.cancel()
	assert.Nil(t, c.current())
}

func TestTurnTimeoutFoldsCurrentActor(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	r, rec := newTestRoom(t, mClock, "", "alice", "bob", "carol")
	require.NoError(t, r.Start("alice"))

	st := r.State()
	require.Equal(t, "alice", st.CurrentActor)

	mClock.Advance(30 * time.Second).MustWait(testContext(t))

	st = r.State()
	assert.True(t, seatByID(st, "alice").Folded)
	assert.Equal(t, "bob", st.CurrentActor)

	timeouts := rec.ofType(protocol.MessageTypeActionTimeout)
	require.Len(t, timeouts, 1)
	data := timeouts[0].Data.(protocol.ActionTimeoutData)
	assert.Equal(t, "alice", data.PlayerID)
	assert.Equal(t, "fold", data.Action)

	// The clock re-armed for bob.
	require.NotNil(t, r.pendingTurn())
	mClock.Advance(30 * time.Second).MustWait(testContext(t))
	assert.True(t, seatByID(r.State(), "bob").Folded)
	assert.False(t, r.State().InHand, "carol wins uncontested")
}

func TestStaleTimerFireIsNoop(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	r, rec := newTestRoom(t, mClock, "", "alice", "bob", "carol")
	require.NoError(t, r.Start("alice"))

	stale := r.pendingTurn()
	require.NotNil(t, stale)
	require.True(t, r.HandleAction("alice", game.Fold, 0))
	require.NotSame(t, stale, r.pendingTurn())

	before := r.State()
	events := rec.count()

	// The old handle lost the race: firing it must not fold bob.
	r.onTurnTimeout(stale)
	assert.Equal(t, before, r.State())
	assert.Equal(t, events, rec.count())
	assert.False(t, seatByID(r.State(), "bob").Folded)
}

func TestActionBeatsTimerThroughClock(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	r, _ := newTestRoom(t, mClock, "", "alice", "bob", "carol")
	require.NoError(t, r.Start("alice"))

	mClock.Advance(20 * time.Second).MustWait(testContext(t))
	require.True(t, r.HandleAction("alice", game.Call, 0))

	// Alice's timer would have fired at 30s; bob's new one is due at 50s.
	mClock.Advance(20 * time.Second).MustWait(testContext(t))
	st := r.State()
	assert.False(t, seatByID(st, "bob").Folded)
	assert.False(t, seatByID(st, "alice").Folded)
	assert.Equal(t, "bob", st.CurrentActor)
}

func TestShowdownThenGameOver(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	r, rec := newTestRoom(t, mClock, "As Ad Ks Kd 2c 7h 9d 3s 4c", "alice", "bob")
	require.NoError(t, r.Start("alice"))

	// Heads-up: alice is dealer and big blind, bob acts first.
	require.Equal(t, "bob", r.State().CurrentActor)
	require.True(t, r.HandleAction("bob", game.Raise, 1950))
	require.True(t, r.HandleAction("alice", game.Call, 0))

	results := rec.ofType(protocol.MessageTypeShowdownResult)
	require.Len(t, results, 1)
	res := results[0].Data.(protocol.ShowdownResultData)
	assert.Equal(t, map[string]int{"alice": 4000}, res.Winnings)
	assert.Len(t, res.Board, 5)
	require.Contains(t, res.Hands, "bob")
	assert.Equal(t, poker.MustParseCards("Ks Kd"), res.Hands["bob"].Cards)
	assert.Equal(t, "Pair", res.Hands["alice"].Category)
	assert.Nil(t, r.pendingTurn())

	assert.False(t, r.Finished())
	mClock.Advance(5 * time.Second).MustWait(testContext(t))
	assert.True(t, r.Finished())

	over := rec.ofType(protocol.MessageTypeGameOver)
	require.Len(t, over, 1)
	data := over[0].Data.(protocol.GameOverData)
	assert.Equal(t, "alice", data.Winner)
	assert.Equal(t, map[string]int{"alice": 4000, "bob": 0}, data.Stacks)

	require.ErrorIs(t, r.StartHand(), ErrGameOver)
	assert.True(t, r.State().Finished)
}

func TestNextHandStartsAfterDelay(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	r, rec := newTestRoom(t, mClock, "", "alice", "bob", "carol")
	require.NoError(t, r.Start("alice"))

	require.True(t, r.HandleAction("alice", game.Fold, 0))
	require.True(t, r.HandleAction("bob", game.Fold, 0))
	st := r.State()
	require.False(t, st.InHand)
	require.Equal(t, 1, st.HandNumber)

	// Nothing happens before the delay elapses.
	mClock.Advance(4 * time.Second).MustWait(testContext(t))
	require.Equal(t, 1, r.State().HandNumber)

	mClock.Advance(time.Second).MustWait(testContext(t))
	st = r.State()
	assert.True(t, st.InHand)
	assert.Equal(t, 2, st.HandNumber)
	assert.Equal(t, 1, st.DealerSeat)
	assert.Len(t, rec.ofType(protocol.MessageTypeHoleCards), 6)
}

func TestHoleCardsArePrivate(t *testing.T) {
	t.Parallel()

	r, rec := newTestRoom(t, quartz.NewMock(t), "As Ad Ks Kd Qs Qd", "alice", "bob", "carol")
	require.NoError(t, r.Start("alice"))

	holes := rec.ofType(protocol.MessageTypeHoleCards)
	require.Len(t, holes, 3)
	for _, ev := range holes {
		data := ev.Data.(protocol.HoleCardsData)
		assert.Equal(t, data.PlayerID, ev.Recipient)
		assert.Len(t, data.Cards, 2)
	}
	for _, ev := range rec.ofType(protocol.MessageTypeStateUpdate) {
		assert.False(t, ev.Private())
	}

	cards, err := r.HoleCards("bob")
	require.NoError(t, err)
	assert.Equal(t, poker.MustParseCards("Ks Kd"), cards)

	_, err = r.HoleCards("mallory")
	require.ErrorIs(t, err, ErrSeatNotFound)
}

func TestStartPreconditions(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, quartz.NewMock(t), "", "alice")
	require.ErrorIs(t, r.Start("alice"), ErrNotEnoughPlayers)
	require.False(t, r.Started())

	require.NoError(t, r.Join("bob"))
	require.ErrorIs(t, r.Start("bob"), ErrNotCreator)
	require.NoError(t, r.Start("alice"))
	require.ErrorIs(t, r.Start("alice"), ErrStarted)
	require.ErrorIs(t, r.StartHand(), ErrHandInProgress)
}

func TestJoinFillsRoomAndAutoStarts(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, quartz.NewMock(t), "", "p1", "p2", "p3", "p4", "p5")
	require.False(t, r.Started())

	require.ErrorIs(t, r.Join("p1"), ErrSeatTaken)
	require.NoError(t, r.Join("p6"))
	assert.True(t, r.Started())
	assert.True(t, r.State().InHand)

	require.ErrorIs(t, r.Join("p7"), ErrRoomFull)
}

func TestLeaveByCurrentActorFolds(t *testing.T) {
	t.Parallel()

	r, rec := newTestRoom(t, quartz.NewMock(t), "", "host", "bob", "carol", "dave")
	require.NoError(t, r.Start("host"))
	require.Equal(t, "dave", r.State().CurrentActor)

	require.NoError(t, r.Leave("dave"))
	st := r.State()
	assert.True(t, seatByID(st, "dave").Folded)
	assert.Equal(t, "host", st.CurrentActor)
	assert.Equal(t, []string{"host", "bob", "carol"}, r.Players())
	assert.NotNil(t, r.pendingTurn())

	require.ErrorIs(t, r.Leave("dave"), ErrSeatNotFound)
	assert.False(t, r.HandleAction("dave", game.Call, 0))
	assert.Empty(t, rec.ofType(protocol.MessageTypeRoomClosed))
}

func TestLeaveEndsHandWhenOneRemains(t *testing.T) {
	t.Parallel()

	r, rec := newTestRoom(t, quartz.NewMock(t), "", "alice", "bob")
	require.NoError(t, r.Start("alice"))

	require.NoError(t, r.Leave("bob"))
	assert.False(t, r.State().InHand)
	results := rec.ofType(protocol.MessageTypeShowdownResult)
	require.Len(t, results, 1)
	assert.True(t, results[0].Data.(protocol.ShowdownResultData).Uncontested)
}

func TestCreatorLeaveClosesRoom(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	r, rec := newTestRoom(t, mClock, "", "alice", "bob")
	require.NoError(t, r.Start("alice"))

	require.NoError(t, r.Leave("alice"))
	assert.True(t, r.Closed())
	assert.Nil(t, r.pendingTurn())
	closed := rec.ofType(protocol.MessageTypeRoomClosed)
	require.Len(t, closed, 1)
	assert.Equal(t, "creator left", closed[0].Data.(protocol.RoomClosedData).Reason)

	assert.False(t, r.HandleAction("bob", game.Call, 0))
	require.ErrorIs(t, r.Join("carol"), ErrRoomClosed)
	require.ErrorIs(t, r.Leave("bob"), ErrRoomClosed)
}

func TestRejectedActionPublishesNothing(t *testing.T) {
	t.Parallel()

	r, rec := newTestRoom(t, quartz.NewMock(t), "", "alice", "bob", "carol")
	require.NoError(t, r.Start("alice"))
	n := rec.count()
	timer := r.pendingTurn()

	assert.False(t, r.HandleAction("bob", game.Call, 0), "out of turn")
	assert.False(t, r.HandleAction("alice", game.Check, 0), "check facing a bet")
	assert.False(t, r.HandleAction("ghost", game.Fold, 0))
	assert.Equal(t, n, rec.count())
	assert.Same(t, timer, r.pendingTurn(), "rejected actions keep the turn clock")
}

func TestStateIsIdempotent(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, quartz.NewMock(t), "", "alice", "bob", "carol")
	require.NoError(t, r.Start("alice"))
	require.True(t, r.HandleAction("alice", game.Call, 0))

	assert.Equal(t, r.State(), r.State())
}

func TestEveryMutationPublishesState(t *testing.T) {
	t.Parallel()

	r, rec := newTestRoom(t, quartz.NewMock(t), "", "alice", "bob", "carol")
	before := len(rec.ofType(protocol.MessageTypeStateUpdate))
	require.Equal(t, 2, before, "one per join")

	require.NoError(t, r.Start("alice"))
	require.True(t, r.HandleAction("alice", game.Call, 0))
	require.True(t, r.HandleAction("bob", game.Call, 0))
	assert.Len(t, rec.ofType(protocol.MessageTypeStateUpdate), before+3)

	last := rec.ofType(protocol.MessageTypeStateUpdate)[before+2].Data.(protocol.StateUpdate)
	assert.Equal(t, "FLOP", last.Street)
	assert.Len(t, last.CommunityCards, 3)
	assert.Equal(t, 300, last.Pot)
}
