// Package protocol defines the JSON messages exchanged with clients and the
// events a room publishes.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message is the envelope for every WebSocket frame.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	return NewMessageAt(messageType, data, time.Now())
}

// NewMessageAt creates a message stamped with ts.
func NewMessageAt(messageType MessageType, data any, ts time.Time) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", messageType, err)
		}
		raw = b
	}
	return &Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: ts,
	}, nil
}

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s: missing data", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", m.Type, err)
	}
	return nil
}

// Event is something a room publishes. Events with a recipient are private
// to that seat and must never be broadcast.
type Event struct {
	Type      MessageType
	RoomID    string
	Recipient string // seat ID, empty for the whole room
	Data      any
	Timestamp time.Time
}

// Private reports whether the event is addressed to a single seat.
func (e Event) Private() bool {
	return e.Recipient != ""
}

// Message encodes the event as a wire message.
func (e Event) Message() (*Message, error) {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return NewMessageAt(e.Type, e.Data, ts)
}
