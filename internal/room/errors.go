package room

import (
	"errors"

	"github.com/lox/holdemrooms/internal/game"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrRoomClosed   = errors.New("room is closed")
	ErrGameOver     = errors.New("game is over")
	ErrNotCreator   = errors.New("only the room creator can start the game")
	ErrStarted      = errors.New("game already started")

	// Re-exported from game so callers need only this package.
	ErrSeatNotFound     = game.ErrSeatNotFound
	ErrSeatTaken        = game.ErrSeatTaken
	ErrNotEnoughPlayers = game.ErrNotEnoughPlayers
	ErrHandInProgress   = game.ErrHandInProgress
)
