// Package common provides shared utilities and types used across the engine.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Parsing errors.
	ErrParseFailed = errors.New("unparseable application text")

	// Mapping errors.
	ErrMappingCorrupt = errors.New("malformed mapping rule")

	// Validation errors (programmer misuse, not bad fitments).
	ErrValidatorMisuse = errors.New("validator invoked without required context")

	// Reference data and storage errors.
	ErrRefDataUnavailable = errors.New("reference data unavailable")
	ErrStoreUnavailable   = errors.New("rule store unavailable")
	ErrNotFound           = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsInfrastructure reports whether an error signals that a backing store
// is down, as opposed to one bad input. Batch processing fails fast on
// infrastructure errors and records everything else per item.
func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrRefDataUnavailable) || errors.Is(err, ErrStoreUnavailable)
}
