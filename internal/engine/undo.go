package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sortsense/sortsense/internal/common"
	"github.com/sortsense/sortsense/internal/model"
)

// Undo reverses the executed moves of one session. An empty sessionID
// targets the most recent session. Records whose destination file is
// gone, or whose original path is now occupied by some other file, are
// reported as non-undoable and left executed; the file occupying the
// source slot is never destroyed. One conflicted record does not stop
// the rest.
func (e *Engine) Undo(ctx context.Context, sessionID string) ([]model.UndoOutcome, error) {
	var session *model.Session
	var err error
	if sessionID == "" {
		session, err = e.log.LatestSession(ctx)
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoSessions
		}
	} else {
		session, err = e.log.GetSession(ctx, sessionID)
	}
	if err != nil {
		return nil, err
	}

	records, err := e.log.GetMoves(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]model.UndoOutcome, 0, len(records))

	// Walk in reverse append order so files that were renamed into a
	// slot vacated earlier in the run unwind cleanly.
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		if record.Status != model.StatusExecuted {
			continue
		}

		outcome := model.UndoOutcome{Record: record}

		switch {
		case !fileExists(record.Destination):
			outcome.Reason = "destination file no longer exists"
		case fileExists(record.Source):
			outcome.Reason = "source path is occupied"
		default:
			if err := moveFile(record.Destination, record.Source); err != nil {
				outcome.Reason = fmt.Sprintf("restore failed: %v", err)
				break
			}
			if err := e.log.MarkUndone(ctx, record.ID); err != nil {
				// The file is back in place; a stale log status is the
				// lesser problem, but it must be surfaced.
				slog.Error("restored file but failed to update log",
					"move_id", record.ID, "error", err)
				outcome.Reason = fmt.Sprintf("restored, log update failed: %v", err)
				break
			}
			outcome.Undone = true
		}

		if !outcome.Undone {
			slog.Warn("move not undone",
				"source", record.Source,
				"destination", record.Destination,
				"reason", outcome.Reason)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}
