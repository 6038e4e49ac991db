package game

import "errors"

var (
	// ErrNotEnoughPlayers is returned by StartHand when fewer than two seats
	// have chips.
	ErrNotEnoughPlayers = errors.New("not enough players with chips")
	// ErrHandInProgress is returned when an operation requires the table to
	// be between hands.
	ErrHandInProgress = errors.New("hand in progress")
	// ErrSeatTaken is returned when a seat ID is already at the table.
	ErrSeatTaken = errors.New("seat already taken")
	// ErrSeatNotFound is returned when a seat ID is not at the table.
	ErrSeatNotFound = errors.New("seat not found")
)
