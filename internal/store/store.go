package store

import (
	"context"
	"time"

	"github.com/nhle/focusflow/internal/model"
)

// TaskFilter controls filtering and sorting for cached task queries.
type TaskFilter struct {
	Status   *string
	Priority *string
	Query    *string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// Store is the local persistence layer: the last dashboard snapshot, the
// diagnostics journal and pomodoro history.
type Store interface {
	// === Snapshot cache ===

	// ReplaceSnapshot swaps the cached tasks and unread notifications for
	// the given ones in a single transaction.
	ReplaceSnapshot(ctx context.Context, tasks []model.Task, unread []model.Notification) error
	GetTasks(ctx context.Context, opts TaskFilter) ([]model.Task, error)
	GetTaskByID(ctx context.Context, id int64) (*model.Task, error)
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	LastSyncedAt(ctx context.Context) (time.Time, bool, error)

	// === Diagnostics ===

	RecordDiagnostic(ctx context.Context, source, detail string) error
	GetDiagnostics(ctx context.Context, limit int) ([]model.Diagnostic, error)

	// === Pomodoro history ===

	RecordPomodoro(ctx context.Context, session model.PomodoroSession) error
	CountPomodorosSince(ctx context.Context, since time.Time) (int, error)

	Close() error
}
