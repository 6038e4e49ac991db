// Package server exposes rooms to WebSocket clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdemrooms/internal/protocol"
	"github.com/lox/holdemrooms/internal/room"
)

const shutdownTimeout = 5 * time.Second

// Server represents the WebSocket server. It is also the relay sink that
// delivers room events to the connections bound to each room.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	manager     *room.Manager
	connections map[*Connection]bool
	logger      *log.Logger
	mu          sync.RWMutex
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
	}
}

// SetManager sets the room registry that client requests act on.
func (s *Server) SetManager(m *room.Manager) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager = m
}

func (s *Server) rooms() *room.Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manager
}

// Handler returns the HTTP routes served by s.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then closes every connection.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down WebSocket server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := httpServer.Shutdown(shutdownCtx)
	s.Stop()
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return shutdownErr
}

// Stop closes all connections
func (s *Server) Stop() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.connections = make(map[*Connection]bool)
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

// unregister drops conn and takes its player out of their room. The hub lock
// is released before calling into the room.
func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	_, ok := s.connections[conn]
	delete(s.connections, conn)
	total := len(s.connections)
	m := s.manager
	s.mu.Unlock()
	if !ok {
		return
	}

	playerID, roomID := conn.Player(), conn.Room()
	if playerID != "" && roomID != "" && m != nil {
		if r, err := m.Get(roomID); err == nil {
			s.logger.Info("Cleaning up disconnected player", "player", playerID, "room", roomID)
			_ = r.Leave(playerID) // best effort
		}
	}
	_ = conn.Close()
	s.logger.Info("Client disconnected", "total", total)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(ws, s, s.logger)
	s.register(client)
	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Publish delivers a room event to the connections bound to roomID. Private
// events reach only their recipient. It never blocks: a connection whose
// buffer is full is closed.
func (s *Server) Publish(roomID string, ev protocol.Event) {
	msg, err := ev.Message()
	if err != nil {
		s.logger.Error("Failed to encode event", "room", roomID, "type", ev.Type, "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.Room() != roomID {
			continue
		}
		if ev.Private() && conn.Player() != ev.Recipient {
			continue
		}
		if err := conn.SendMessage(msg); err == nil {
			count++
		}
		if ev.Type == protocol.MessageTypeRoomClosed {
			conn.unbind()
		}
	}

	s.logger.Debug("Published event", "room", roomID, "type", ev.Type, "recipients", count)
}

// ConnectedPlayers returns the player IDs bound to roomID.
func (s *Server) ConnectedPlayers(roomID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []string
	for conn := range s.connections {
		if conn.Room() == roomID && conn.Player() != "" {
			players = append(players, conn.Player())
		}
	}
	return players
}
