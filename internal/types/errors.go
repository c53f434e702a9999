package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Game state errors
	ErrGameNotFound  ErrorCode = "GAME_NOT_FOUND"
	ErrTableBusy     ErrorCode = "TABLE_BUSY"
	ErrInvalidState  ErrorCode = "INVALID_STATE"
	ErrGameAbandoned ErrorCode = "GAME_ABANDONED"

	// Player errors
	ErrPlayerNotFound   ErrorCode = "PLAYER_NOT_FOUND"
	ErrNotPlayerTurn    ErrorCode = "NOT_PLAYER_TURN"
	ErrAlreadyJoined    ErrorCode = "ALREADY_JOINED"
	ErrTooManyPlayers   ErrorCode = "TOO_MANY_PLAYERS"
	ErrNotEnoughPlayers ErrorCode = "NOT_ENOUGH_PLAYERS"

	// Move errors: recoverable, reported back to the acting player
	ErrIllegalMove   ErrorCode = "ILLEGAL_MOVE"
	ErrCardNotHeld   ErrorCode = "CARD_NOT_HELD"
	ErrBidOutOfRange ErrorCode = "BID_OUT_OF_RANGE"
	ErrTimeout       ErrorCode = "TIMEOUT"

	// System errors
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	ErrDatabaseError      ErrorCode = "DATABASE_ERROR"
)

// GameError represents a game-related error
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError checks if an error is a GameError and has a specific code
func IsGameError(err error, code ErrorCode) bool {
	var gameErr *GameError
	if !errors.As(err, &gameErr) {
		return false
	}
	return gameErr.Code == code
}

// Recoverable reports whether an error is a rejected move or timeout
// that the game should survive, as opposed to a fault that ends it.
func Recoverable(err error) bool {
	var gameErr *GameError
	if !errors.As(err, &gameErr) {
		return false
	}
	switch gameErr.Code {
	case ErrIllegalMove, ErrCardNotHeld, ErrBidOutOfRange, ErrTimeout, ErrNotPlayerTurn:
		return true
	}
	return false
}
