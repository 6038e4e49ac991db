package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/lox/holdemrooms/internal/protocol"
)

const redisBufferSize = 256

// publisher is the part of *redis.Client used by Redis.
type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Redis publishes public room events to Redis pub/sub so that spectators and
// other services can follow a room. Private events (hole cards) are never
// published. Publishing is asynchronous; Run drains the queue.
type Redis struct {
	client publisher
	closer func() error
	prefix string
	logger *log.Logger
	events chan outbound
}

type outbound struct {
	roomID string
	ev     protocol.Event
}

// NewRedis connects to the Redis server at url (redis://host:port/db).
func NewRedis(url, prefix string, logger *log.Logger) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	r := newRedis(client, prefix, logger)
	r.closer = client.Close
	return r, nil
}

func newRedis(client publisher, prefix string, logger *log.Logger) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		logger: logger.WithPrefix("relay").With("backend", "redis"),
		events: make(chan outbound, redisBufferSize),
	}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	c, ok := r.client.(*redis.Client)
	if !ok {
		return nil
	}
	return c.Ping(ctx).Err()
}

// Channel returns the pub/sub channel for a room.
func (r *Redis) Channel(roomID string) string {
	return r.prefix + ":room:" + roomID
}

// Publish queues a public event. When the queue is full the event is dropped
// and logged rather than blocking the room.
func (r *Redis) Publish(roomID string, ev protocol.Event) {
	if ev.Private() {
		return
	}
	select {
	case r.events <- outbound{roomID: roomID, ev: ev}:
	default:
		r.logger.Warn("Relay queue full, dropping event", "room", roomID, "type", ev.Type)
	}
}

// Run publishes queued events until ctx is cancelled.
func (r *Redis) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case out := <-r.events:
			if err := r.send(ctx, out); err != nil {
				r.logger.Error("Failed to publish event", "room", out.roomID, "type", out.ev.Type, "error", err)
			}
		}
	}
}

func (r *Redis) send(ctx context.Context, out outbound) error {
	msg, err := out.ev.Message()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return r.client.Publish(ctx, r.Channel(out.roomID), payload).Err()
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
