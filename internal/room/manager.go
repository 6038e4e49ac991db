package room

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdemrooms/internal/gameid"
	"github.com/lox/holdemrooms/internal/randutil"
)

const maxCodeAttempts = 16

// Manager is the registry of open rooms. Rooms are independent; the manager
// lock only guards the id to room map and is never held while calling into a
// room.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg      Config
	logger   *log.Logger
	codes    *gameid.Generator
	newRNG   func() *rand.Rand
	roomOpts []Option
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRoomOptions applies opts to every room the manager creates.
func WithRoomOptions(opts ...Option) ManagerOption {
	return func(m *Manager) { m.roomOpts = append(m.roomOpts, opts...) }
}

// WithCodeSource draws room codes from src instead of crypto/rand.
func WithCodeSource(src gameid.RandSource) ManagerOption {
	return func(m *Manager) { m.codes = gameid.NewGenerator(src) }
}

// WithSeed makes every room's deck sequence reproducible: room n gets stream
// n of the seed.
func WithSeed(seed int64) ManagerOption {
	return func(m *Manager) {
		var n uint64
		var mu sync.Mutex
		m.newRNG = func() *rand.Rand {
			mu.Lock()
			defer mu.Unlock()
			n++
			return randutil.Derive(seed, n)
		}
	}
}

// NewManager creates an empty registry. cfg supplies the defaults for new
// rooms.
func NewManager(cfg Config, logger *log.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		rooms:  make(map[string]*Room),
		cfg:    cfg.withDefaults(),
		logger: logger.WithPrefix("rooms"),
		codes:  gameid.NewGenerator(nil),
		newRNG: randutil.NewSecure,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the defaults used for new rooms.
func (m *Manager) Config() Config {
	return m.cfg
}

// Create opens a room with the creator seated. A non-positive stackMultiple
// uses the configured default.
func (m *Manager) Create(creator string, stackMultiple int) (*Room, error) {
	if creator == "" {
		return nil, errors.New("create room: player id is required")
	}
	cfg := m.cfg
	if stackMultiple > 0 {
		cfg.StackMultiple = stackMultiple
	}

	m.mu.Lock()
	id := ""
	for range maxCodeAttempts {
		code := m.codes.RoomCode()
		if _, taken := m.rooms[code]; !taken {
			id = code
			break
		}
	}
	if id == "" {
		m.mu.Unlock()
		return nil, errors.New("create room: could not allocate a room code")
	}

	opts := append(slices.Clone(m.roomOpts),
		WithLogger(m.logger),
		WithRNG(m.newRNG()),
		WithOnClose(m.remove),
	)
	r := New(id, creator, cfg, opts...)
	m.rooms[id] = r
	m.mu.Unlock()

	m.logger.Info("Room created", "room", id, "creator", creator, "stack", cfg.StartingStack())
	return r, nil
}

// Get returns the room with the given code.
func (m *Manager) Get(id string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %q: %w", id, ErrRoomNotFound)
	}
	return r, nil
}

// Close closes a room and removes it from the registry.
func (m *Manager) Close(id, reason string) error {
	m.mu.Lock()
	r, ok := m.rooms[id]
	delete(m.rooms, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("room %q: %w", id, ErrRoomNotFound)
	}
	r.Close(reason)
	return nil
}

// remove drops a room that closed itself.
func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.rooms, id)
	m.mu.Unlock()
	m.logger.Debug("Room removed", "room", id)
}

// Len returns the number of open rooms.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// IDs returns the open room codes in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Shutdown closes every room.
func (m *Manager) Shutdown(reason string) {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()

	for _, r := range rooms {
		r.Close(reason)
	}
	m.logger.Info("All rooms closed", "count", len(rooms), "reason", reason)
}
