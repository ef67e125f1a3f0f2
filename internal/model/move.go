package model

import "time"

// MoveStatus tracks a MoveRecord through its lifecycle.
type MoveStatus string

// Move status constants. Valid transitions are
// planned → executed → undone, and planned → failed.
const (
	StatusPlanned  MoveStatus = "planned"
	StatusExecuted MoveStatus = "executed"
	StatusFailed   MoveStatus = "failed"
	StatusUndone   MoveStatus = "undone"
)

// MoveRecord describes one planned or performed file move.
type MoveRecord struct {
	CreatedAt   time.Time
	SessionID   string
	Source      string
	Destination string
	Category    string
	Status      MoveStatus
	Error       string // Populated when Status is failed
	ID          int64
}

// Session identifies one organize run. Its moves form an append-only
// sequence in the transaction log.
type Session struct {
	StartedAt   time.Time
	CompletedAt *time.Time
	ID          string
	SourceDir   string
	DestDir     string
	MoveCount   int
}

// UndoOutcome reports the result of attempting to undo one MoveRecord.
type UndoOutcome struct {
	Record MoveRecord
	Undone bool
	Reason string // Populated when the record could not be undone
}
