package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrHypothesisNotFound = fmt.Errorf("%w: hypothesis", ErrNotFound)
	ErrTournamentNotFound = fmt.Errorf("%w: tournament", ErrNotFound)
	ErrRoundNotFound      = fmt.Errorf("%w: round", ErrNotFound)

	// Input errors
	ErrMalformedInput  = errors.New("malformed input")
	ErrUnknownRevision = fmt.Errorf("%w: critique references unknown hypothesis revision", ErrMalformedInput)
	ErrDetachedDefense = fmt.Errorf("%w: defense does not reference the round critique", ErrMalformedInput)

	// Routing errors
	ErrInvalidStage       = errors.New("invalid stage")
	ErrInvalidTargetStage = errors.New("reject target stage out of range")

	// Ledger errors
	ErrTournamentTerminal = errors.New("tournament already terminal")
	ErrRoundOutOfOrder    = errors.New("round committed out of order")

	// Escalation triggers (recoverable, force escalation rather than failure)
	ErrBudgetExhausted   = errors.New("resource budget exhausted")
	ErrStalemateDetected = errors.New("stalemate detected")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewMalformedInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, reason)
}

func NewInvalidStageError(stage int) error {
	return fmt.Errorf("%w: %d not in [1,4]", ErrInvalidStage, stage)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// IsRecoverable reports whether the error forces escalation instead of
// failing the tournament.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrBudgetExhausted) ||
		errors.Is(err, ErrStalemateDetected)
}
