package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/focusflow/internal/model"
)

// RecordDiagnostic appends an entry to the diagnostics journal.
func (s *SQLiteStore) RecordDiagnostic(ctx context.Context, source, detail string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO diagnostics (id, source, detail, created_at) VALUES (?, ?, ?, ?)",
		uuid.New().String(), source, detail, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording diagnostic: %w", err)
	}
	return nil
}

// GetDiagnostics returns the most recent journal entries, newest first.
// A limit of zero or less returns all of them.
func (s *SQLiteStore) GetDiagnostics(ctx context.Context, limit int) ([]model.Diagnostic, error) {
	query := "SELECT * FROM diagnostics ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var out []model.Diagnostic
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	return out, nil
}

// RecordPomodoro stores a finished countdown. If the session has no ID, a
// new UUID is generated.
func (s *SQLiteStore) RecordPomodoro(ctx context.Context, session model.PomodoroSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CompletedAt.IsZero() {
		session.CompletedAt = time.Now()
	}
	session.CompletedAt = session.CompletedAt.UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO pomodoro_sessions (id, planned_sec, completed_at)
		VALUES (:id, :planned_sec, :completed_at)`,
		session,
	)
	if err != nil {
		return fmt.Errorf("recording pomodoro: %w", err)
	}
	return nil
}

// CountPomodorosSince counts sessions completed at or after since.
func (s *SQLiteStore) CountPomodorosSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM pomodoro_sessions WHERE completed_at >= ?",
		since.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("counting pomodoros: %w", err)
	}
	return n, nil
}
