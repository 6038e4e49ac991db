package server

import (
	"errors"
	"slices"

	"github.com/lox/holdemrooms/internal/game"
	"github.com/lox/holdemrooms/internal/protocol"
	"github.com/lox/holdemrooms/internal/room"
)

// Error codes sent in error messages.
const (
	codeInvalidMessage   = "invalid_message"
	codeUnknownType      = "unknown_message_type"
	codeUnavailable      = "service_unavailable"
	codeAlreadyInRoom    = "already_in_room"
	codeNotInRoom        = "not_in_room"
	codeRoomNotFound     = "room_not_found"
	codeRoomFull         = "room_full"
	codeRoomClosed       = "room_closed"
	codeGameOver         = "game_over"
	codeSeatTaken        = "seat_taken"
	codeNotCreator       = "not_creator"
	codeAlreadyStarted   = "already_started"
	codeNotEnoughPlayers = "not_enough_players"
	codeHandInProgress   = "hand_in_progress"
	codeInvalidAction    = "invalid_action"
	codeInternal         = "internal_error"
)

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.Player())

	m := c.server.rooms()
	if m == nil {
		c.sendError(msg, codeUnavailable, "room service not available")
		return
	}

	switch msg.Type {
	case protocol.MessageTypeCreateRoom:
		var data protocol.CreateRoomData
		if err := msg.Decode(&data); err != nil {
			c.sendError(msg, codeInvalidMessage, err.Error())
			return
		}
		c.handleCreateRoom(m, msg, data)

	case protocol.MessageTypeJoinRoom:
		var data protocol.JoinRoomData
		if err := msg.Decode(&data); err != nil {
			c.sendError(msg, codeInvalidMessage, err.Error())
			return
		}
		c.handleJoinRoom(m, msg, data)

	case protocol.MessageTypeLeaveRoom:
		c.handleLeaveRoom(m, msg)

	case protocol.MessageTypeStartGame:
		c.handleStartGame(m, msg)

	case protocol.MessageTypeAction:
		var data protocol.ActionData
		if err := msg.Decode(&data); err != nil {
			c.sendError(msg, codeInvalidMessage, err.Error())
			return
		}
		c.handleAction(m, msg, data)

	default:
		c.sendError(msg, codeUnknownType, "unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleCreateRoom(m *room.Manager, req *protocol.Message, data protocol.CreateRoomData) {
	if c.Room() != "" {
		c.sendError(req, codeAlreadyInRoom, "leave your current room first")
		return
	}
	if data.PlayerID == "" {
		c.sendError(req, codeInvalidMessage, "playerId is required")
		return
	}

	r, err := m.Create(data.PlayerID, data.StackMultiple)
	if err != nil {
		c.sendFailure(req, err)
		return
	}
	c.bind(data.PlayerID, r.ID())
	c.logger.Info("Room created", "room", r.ID(), "player", data.PlayerID)

	c.reply(req, protocol.MessageTypeRoomCreated, c.joinedData(r, data.PlayerID))
	c.reply(req, protocol.MessageTypeStateUpdate, r.State())
}

func (c *Connection) handleJoinRoom(m *room.Manager, req *protocol.Message, data protocol.JoinRoomData) {
	if c.Room() != "" {
		c.sendError(req, codeAlreadyInRoom, "leave your current room first")
		return
	}
	if data.PlayerID == "" || data.RoomID == "" {
		c.sendError(req, codeInvalidMessage, "roomId and playerId are required")
		return
	}

	r, err := m.Get(data.RoomID)
	if err != nil {
		c.sendFailure(req, err)
		return
	}

	if slices.Contains(r.Players(), data.PlayerID) {
		c.sendError(req, codeSeatTaken, "player "+data.PlayerID+" is already seated")
		return
	}

	// Bind first so the events Join publishes, including hole cards when
	// the join fills the room, reach this connection.
	c.bind(data.PlayerID, r.ID())
	if err := r.Join(data.PlayerID); err != nil {
		c.unbind()
		c.sendFailure(req, err)
		return
	}
	c.logger.Info("Joined room", "room", r.ID(), "player", data.PlayerID)
	c.reply(req, protocol.MessageTypeRoomJoined, c.joinedData(r, data.PlayerID))
}

func (c *Connection) handleLeaveRoom(m *room.Manager, req *protocol.Message) {
	playerID, roomID := c.Player(), c.Room()
	if roomID == "" {
		c.sendError(req, codeNotInRoom, "not in a room")
		return
	}

	if r, err := m.Get(roomID); err == nil {
		if err := r.Leave(playerID); err != nil && !errors.Is(err, room.ErrRoomClosed) {
			c.sendFailure(req, err)
			return
		}
	}
	c.unbind()
	c.logger.Info("Left room", "room", roomID, "player", playerID)
	c.reply(req, protocol.MessageTypeRoomLeft, protocol.RoomLeftData{RoomID: roomID, PlayerID: playerID})
}

func (c *Connection) handleStartGame(m *room.Manager, req *protocol.Message) {
	r, ok := c.currentRoom(m, req)
	if !ok {
		return
	}
	if err := r.Start(c.Player()); err != nil {
		c.sendFailure(req, err)
	}
}

func (c *Connection) handleAction(m *room.Manager, req *protocol.Message, data protocol.ActionData) {
	r, ok := c.currentRoom(m, req)
	if !ok {
		return
	}
	a, err := game.ParseAction(data.Action)
	if err != nil {
		c.sendError(req, codeInvalidAction, err.Error())
		return
	}
	if !r.HandleAction(c.Player(), a, data.Amount) {
		c.sendError(req, codeInvalidAction, "action rejected")
	}
}

func (c *Connection) currentRoom(m *room.Manager, req *protocol.Message) (*room.Room, bool) {
	roomID := c.Room()
	if roomID == "" {
		c.sendError(req, codeNotInRoom, "not in a room")
		return nil, false
	}
	r, err := m.Get(roomID)
	if err != nil {
		c.unbind()
		c.sendFailure(req, err)
		return nil, false
	}
	return r, true
}

func (c *Connection) joinedData(r *room.Room, playerID string) protocol.RoomJoinedData {
	return protocol.RoomJoinedData{
		RoomID:   r.ID(),
		PlayerID: playerID,
		Creator:  r.Creator(),
		Players:  r.Players(),
		Stack:    r.Config().StartingStack(),
	}
}

// reply sends a response carrying the request's id.
func (c *Connection) reply(req *protocol.Message, typ protocol.MessageType, data any) {
	msg, err := protocol.NewMessage(typ, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", typ, "error", err)
		return
	}
	msg.RequestID = req.RequestID
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(req *protocol.Message, code, message string) {
	c.reply(req, protocol.MessageTypeError, protocol.ErrorData{
		Code:    code,
		Message: message,
	})
}

func (c *Connection) sendFailure(req *protocol.Message, err error) {
	c.sendError(req, errorCode(err), err.Error())
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return codeRoomNotFound
	case errors.Is(err, room.ErrRoomFull):
		return codeRoomFull
	case errors.Is(err, room.ErrRoomClosed):
		return codeRoomClosed
	case errors.Is(err, room.ErrGameOver):
		return codeGameOver
	case errors.Is(err, room.ErrSeatTaken):
		return codeSeatTaken
	case errors.Is(err, room.ErrSeatNotFound):
		return codeNotInRoom
	case errors.Is(err, room.ErrNotCreator):
		return codeNotCreator
	case errors.Is(err, room.ErrStarted):
		return codeAlreadyStarted
	case errors.Is(err, room.ErrNotEnoughPlayers):
		return codeNotEnoughPlayers
	case errors.Is(err, room.ErrHandInProgress):
		return codeHandInProgress
	default:
		return codeInternal
	}
}
