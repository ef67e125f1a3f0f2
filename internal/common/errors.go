// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors. ErrInvalidConfig is the only error class
	// that aborts a whole run; everything else is isolated to the
	// file or record it concerns.
	ErrInvalidConfig = errors.New("invalid configuration")

	// Reorganizer errors.
	ErrCollisionExhausted = errors.New("destination name collisions exhausted")
	ErrNoSessions         = errors.New("no sessions to undo")
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
