package holdem

import "errors"

// typed errors returned to the submitting client. A rejected action never
// mutates table state.
var (
	// ErrHandNotActive is returned when an action arrives outside a betting round
	ErrHandNotActive = errors.New("no betting round in progress")

	// ErrTurnViolation is returned when a seat acts out of turn
	ErrTurnViolation = errors.New("it is not your turn")

	// ErrInvalidAction is returned when the action verb does not fit the current state
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidAmount is returned for a missing, non-positive, or below-minimum amount
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientChips is returned when the amount exceeds the seat's stack
	ErrInsufficientChips = errors.New("insufficient chips")

	// ErrSeatNotFound is returned when the player does not occupy a seat
	ErrSeatNotFound = errors.New("seat not found")

	// ErrTableFull is returned when all seats are occupied
	ErrTableFull = errors.New("table is full")

	// ErrAlreadySeated is returned when the player already occupies a seat
	ErrAlreadySeated = errors.New("player is already seated")

	// ErrHandInProgress is returned when a hand cannot start because one is live
	ErrHandInProgress = errors.New("a hand is already in progress")

	// ErrNotEnoughPlayers is returned when fewer than two seats can be dealt in
	ErrNotEnoughPlayers = errors.New("at least two players with chips are required")
)
