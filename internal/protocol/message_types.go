package protocol

// MessageType represents a WebSocket message type with type safety
type MessageType string

// Message type constants for the room protocol.
const (
	// Client to server messages
	MessageTypeCreateRoom MessageType = "create_room"
	MessageTypeJoinRoom   MessageType = "join_room"
	MessageTypeLeaveRoom  MessageType = "leave_room"
	MessageTypeStartGame  MessageType = "start_game"
	MessageTypeAction     MessageType = "action"

	// Server to client messages
	MessageTypeRoomCreated    MessageType = "room_created"
	MessageTypeRoomJoined     MessageType = "room_joined"
	MessageTypeRoomLeft       MessageType = "room_left"
	MessageTypeStateUpdate    MessageType = "state_update"
	MessageTypeHoleCards      MessageType = "hole_cards"
	MessageTypeShowdownResult MessageType = "showdown_result"
	MessageTypeGameOver       MessageType = "game_over"
	MessageTypeActionTimeout  MessageType = "action_timeout"
	MessageTypeRoomClosed     MessageType = "room_closed"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
