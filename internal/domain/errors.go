package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the caller holds a stale debt reference.
	ErrNotFound = errors.New("debt not found")
	// ErrInvariantViolation means a mutation would break the balance
	// invariant. This is a caller bug, not user input.
	ErrInvariantViolation = errors.New("balance invariant violated")
)

// ValidationError rejects malformed user input before any state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
