package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sortsense/sortsense/internal/common"
	"github.com/sortsense/sortsense/internal/model"
)

// BeginSession records the start of an organize run.
func (s *SQLiteLog) BeginSession(ctx context.Context, session model.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(session.ID, "session.ID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, source_dir, dest_dir) VALUES (?, ?, ?, ?)`,
		session.ID, session.StartedAt.UTC(), session.SourceDir, session.DestDir)
	if err != nil {
		return fmt.Errorf("failed to begin session: %w", err)
	}
	return nil
}

// AppendMove appends one completed record to the session's sequence.
func (s *SQLiteLog) AppendMove(ctx context.Context, record model.MoveRecord) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateMoveRecord(&record); err != nil {
		return 0, err
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO moves (session_id, source, destination, category, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.SessionID, record.Source, record.Destination, record.Category,
		string(record.Status), record.Error, createdAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to append move: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read move id: %w", err)
	}
	return id, nil
}

// CompleteSession stamps the session as finished.
func (s *SQLiteLog) CompleteSession(ctx context.Context, sessionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET completed_at = ? WHERE id = ?`,
		time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, common.ErrNotFound)
	}
	return nil
}

// LatestSession returns the most recently started session.
func (s *SQLiteLog) LatestSession(ctx context.Context) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.started_at, s.completed_at, s.source_dir, s.dest_dir,
		        (SELECT COUNT(*) FROM moves m WHERE m.session_id = s.id)
		 FROM sessions s ORDER BY s.started_at DESC, s.rowid DESC LIMIT 1`)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest session: %w", common.ErrNotFound)
	}
	return session, err
}

// GetSession returns a session by id.
func (s *SQLiteLog) GetSession(ctx context.Context, id string) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.started_at, s.completed_at, s.source_dir, s.dest_dir,
		        (SELECT COUNT(*) FROM moves m WHERE m.session_id = s.id)
		 FROM sessions s WHERE s.id = ?`, id)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, common.ErrNotFound)
	}
	return session, err
}

// ListSessions returns all sessions, most recent first.
func (s *SQLiteLog) ListSessions(ctx context.Context) ([]model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.started_at, s.completed_at, s.source_dir, s.dest_dir,
		        (SELECT COUNT(*) FROM moves m WHERE m.session_id = s.id)
		 FROM sessions s ORDER BY s.started_at DESC, s.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

// GetMoves returns a session's records in append order.
func (s *SQLiteLog) GetMoves(ctx context.Context, sessionID string) ([]model.MoveRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, source, destination, category, status, COALESCE(error, ''), created_at
		 FROM moves WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.MoveRecord
	for rows.Next() {
		var r model.MoveRecord
		var status string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Source, &r.Destination,
			&r.Category, &status, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		r.Status = model.MoveStatus(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate moves: %w", err)
	}
	return records, nil
}

// MarkUndone transitions one executed record to undone. This is the
// only mutation the log permits after a run completes.
func (s *SQLiteLog) MarkUndone(ctx context.Context, moveID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE moves SET status = ? WHERE id = ? AND status = ?`,
		string(model.StatusUndone), moveID, string(model.StatusExecuted))
	if err != nil {
		return fmt.Errorf("failed to mark move undone: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("move %d not in executed state: %w", moveID, common.ErrNotFound)
	}
	return nil
}

// PruneSessions deletes sessions started before the cutoff.
func (s *SQLiteLog) PruneSessions(ctx context.Context, cutoff time.Time) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM moves WHERE session_id IN (SELECT id FROM sessions WHERE started_at < ?)`,
		cutoff.UTC()); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to prune moves: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE started_at < ?`, cutoff.UTC())
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}

	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	var session model.Session
	var completed sql.NullTime
	if err := row.Scan(&session.ID, &session.StartedAt, &completed,
		&session.SourceDir, &session.DestDir, &session.MoveCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	if completed.Valid {
		t := completed.Time
		session.CompletedAt = &t
	}
	return &session, nil
}
