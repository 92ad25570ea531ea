package model

import "errors"

// Sentinel errors returned by the engine and by games. Check them with
// errors.Is; callers usually see them wrapped with more context.
var (
	// ErrInvalidSquare indicates coordinates outside the 8x8 board.
	ErrInvalidSquare = errors.New("square is off the board")

	// ErrEmptySquare indicates a move starting from an empty square.
	ErrEmptySquare = errors.New("no piece at from square")

	// ErrIllegalMove indicates a move absent from the effective legal set.
	ErrIllegalMove = errors.New("illegal move")

	ErrNotYourTurn    = errors.New("not your turn")
	ErrGameOver       = errors.New("game is over")
	ErrGameNotStarted = errors.New("game has not started")
	ErrGameNotFound   = errors.New("game not found")
	ErrGameFull       = errors.New("game is full")
	ErrNotInGame      = errors.New("player not in game")
	ErrAlreadyQueued  = errors.New("player already in queue")
)
