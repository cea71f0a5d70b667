package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the service layer. Handlers map these to
// HTTP statuses with errors.Is; anything else is a 500.
var (
	// ErrNotFound covers both a missing entity and an entity the
	// caller is not allowed to know exists (notification ownership).
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the entity exists but the caller lacks the
	// required relationship to it.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState means the operation would violate an invariant,
	// e.g. a negative balance or a transition out of a terminal state.
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientCoins is the ledger's non-negativity guard, a
	// specific case of ErrInvalidState.
	ErrInsufficientCoins = fmt.Errorf("insufficient coins: %w", ErrInvalidState)

	// ErrUsernameTaken is returned by signup for a duplicate username.
	ErrUsernameTaken = errors.New("username already registered")
)
