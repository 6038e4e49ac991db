// Package relay delivers room events to their consumers.
package relay

import "github.com/lox/holdemrooms/internal/protocol"

// Sink receives events published by rooms. Rooms call Publish while holding
// their lock, so implementations must not block and must not call back into
// the publishing room.
type Sink interface {
	Publish(roomID string, ev protocol.Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(roomID string, ev protocol.Event)

// Publish calls f(roomID, ev).
func (f SinkFunc) Publish(roomID string, ev protocol.Event) {
	f(roomID, ev)
}

// Fanout publishes every event to each sink in order.
type Fanout []Sink

// Publish implements Sink.
func (f Fanout) Publish(roomID string, ev protocol.Event) {
	for _, s := range f {
		if s != nil {
			s.Publish(roomID, ev)
		}
	}
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(string, protocol.Event) {})
