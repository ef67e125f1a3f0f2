// Package service defines the interfaces between the engine and its
// collaborators.
package service

import (
	"context"
	"time"

	"github.com/sortsense/sortsense/internal/model"
)

// TransactionLog is the durable record of executed file moves, keyed by
// session. It is append-only during a run; the single permitted
// mutation afterwards is the executed → undone transition made by the
// undo path.
type TransactionLog interface {
	// BeginSession records the start of an organize run.
	BeginSession(ctx context.Context, session model.Session) error

	// AppendMove appends one completed MoveRecord (executed or failed)
	// to the session's sequence and returns its id. Appends must be
	// serialized by the caller; the log preserves insertion order.
	AppendMove(ctx context.Context, record model.MoveRecord) (int64, error)

	// CompleteSession stamps the session as finished.
	CompleteSession(ctx context.Context, sessionID string) error

	// LatestSession returns the most recently started session, or
	// common.ErrNotFound when the log is empty.
	LatestSession(ctx context.Context) (*model.Session, error)

	// GetSession returns a session by id.
	GetSession(ctx context.Context, id string) (*model.Session, error)

	// ListSessions returns all sessions, most recent first.
	ListSessions(ctx context.Context) ([]model.Session, error)

	// GetMoves returns a session's records in append order.
	GetMoves(ctx context.Context, sessionID string) ([]model.MoveRecord, error)

	// MarkUndone transitions one executed record to undone.
	MarkUndone(ctx context.Context, moveID int64) error

	// PruneSessions deletes sessions started before the cutoff and
	// returns how many were removed.
	PruneSessions(ctx context.Context, cutoff time.Time) (int, error)

	Close() error
}
