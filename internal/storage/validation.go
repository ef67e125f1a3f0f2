package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sortsense/sortsense/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrInvalidRecord = errors.New("invalid move record")
	ErrInvalidStatus = errors.New("invalid move status")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateMoveRecord checks a record before it enters the log. Only
// completed records may be appended; planned records exist solely in
// memory (dry runs never reach the log at all).
func validateMoveRecord(record *model.MoveRecord) error {
	if record.SessionID == "" {
		return fmt.Errorf("%w: missing session id", ErrInvalidRecord)
	}
	if record.Source == "" {
		return fmt.Errorf("%w: missing source path", ErrInvalidRecord)
	}
	if record.Destination == "" {
		return fmt.Errorf("%w: missing destination path", ErrInvalidRecord)
	}
	switch record.Status {
	case model.StatusExecuted, model.StatusFailed:
		return nil
	case model.StatusPlanned, model.StatusUndone:
		return fmt.Errorf("%w: cannot append %q record", ErrInvalidStatus, record.Status)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, record.Status)
	}
}
