package relay

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemrooms/internal/protocol"
)

type published struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	got  chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{got: make(chan struct{}, 16)}
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.mu.Lock()
	f.msgs = append(f.msgs, published{channel: channel, payload: message.([]byte)})
	f.mu.Unlock()
	f.got <- struct{}{}

	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)
	return cmd
}

func (f *fakePublisher) messages() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.msgs...)
}

func TestFanout(t *testing.T) {
	t.Parallel()

	var a, b []protocol.MessageType
	f := Fanout{
		SinkFunc(func(_ string, ev protocol.Event) { a = append(a, ev.Type) }),
		nil,
		SinkFunc(func(_ string, ev protocol.Event) { b = append(b, ev.Type) }),
	}
	f.Publish("r", protocol.Event{Type: protocol.MessageTypeStateUpdate})
	f.Publish("r", protocol.Event{Type: protocol.MessageTypeGameOver})

	want := []protocol.MessageType{protocol.MessageTypeStateUpdate, protocol.MessageTypeGameOver}
	assert.Equal(t, want, a)
	assert.Equal(t, want, b)

	Discard.Publish("r", protocol.Event{})
}

func TestRedisPublishesPublicEvents(t *testing.T) {
	t.Parallel()

	fake := newFakePublisher()
	r := newRedis(fake, "holdem", log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	r.Publish("aB3dE6gH", protocol.Event{
		Type:      protocol.MessageTypeHoleCards,
		Recipient: "alice",
		Data:      protocol.HoleCardsData{PlayerID: "alice"},
	})
	r.Publish("aB3dE6gH", protocol.Event{
		Type: protocol.MessageTypeGameOver,
		Data: protocol.GameOverData{RoomID: "aB3dE6gH", Winner: "bob"},
	})

	select {
	case <-fake.got:
	case <-time.After(5 * time.Second):
		t.Fatal("event was not published")
	}
	cancel()
	require.NoError(t, <-done)

	msgs := fake.messages()
	require.Len(t, msgs, 1, "hole cards must not be published")
	assert.Equal(t, "holdem:room:aB3dE6gH", msgs[0].channel)

	var msg protocol.Message
	require.NoError(t, json.Unmarshal(msgs[0].payload, &msg))
	assert.Equal(t, protocol.MessageTypeGameOver, msg.Type)

	var data protocol.GameOverData
	require.NoError(t, msg.Decode(&data))
	assert.Equal(t, "bob", data.Winner)
}

func TestRedisDropsWhenQueueFull(t *testing.T) {
	t.Parallel()

	r := newRedis(newFakePublisher(), "holdem", log.New(io.Discard))
	for range redisBufferSize + 10 {
		r.Publish("room", protocol.Event{Type: protocol.MessageTypeStateUpdate})
	}
	assert.Len(t, r.events, redisBufferSize)
	assert.NoError(t, r.Close())
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedis("not a url", "holdem", log.New(io.Discard))
	assert.Error(t, err)

	r, err := NewRedis("redis://localhost:6379/0", "holdem", log.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, "holdem:room:x", r.Channel("x"))
	assert.NoError(t, r.Close())
}
