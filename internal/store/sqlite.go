package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/focusflow/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceSnapshot clears the cached tasks and notifications and inserts
// the given ones, stamping the sync time.
func (s *SQLiteStore) ReplaceSnapshot(
	ctx context.Context,
	tasks []model.Task,
	unread []model.Notification,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}

	const taskQuery = `
		INSERT OR REPLACE INTO tasks (
			id, user_id, title, description, priority, status,
			due_date, created_at, completed_at
		) VALUES (
			:id, :user_id, :title, :description, :priority, :status,
			:due_date, :created_at, :completed_at
		)`

	for _, t := range tasks {
		t.CreatedAt = t.CreatedAt.UTC()
		t.DueDate = utcPtr(t.DueDate)
		t.CompletedAt = utcPtr(t.CompletedAt)
		if _, err := tx.NamedExecContext(ctx, taskQuery, t); err != nil {
			return fmt.Errorf("inserting task %d: %w", t.ID, err)
		}
	}

	const notificationQuery = `
		INSERT OR REPLACE INTO notifications (id, task_id, message, is_read, created_at)
		VALUES (:id, :task_id, :message, :is_read, :created_at)`

	for _, n := range unread {
		n.CreatedAt = n.CreatedAt.UTC()
		if _, err := tx.NamedExecContext(ctx, notificationQuery, n); err != nil {
			return fmt.Errorf("inserting notification %d: %w", n.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO sync_state (id, synced_at) VALUES (1, ?)",
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("stamping sync time: %w", err)
	}

	return tx.Commit()
}

// GetTasks retrieves cached tasks matching the provided filter options.
// The default order is newest first, matching the dashboard.
func (s *SQLiteStore) GetTasks(
	ctx context.Context,
	opts TaskFilter,
) ([]model.Task, error) {
	var conditions []string
	var args []interface{}

	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}
	if opts.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *opts.Priority)
	}
	if opts.Query != nil && *opts.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		q := "%" + *opts.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT * FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "created_at"
	direction := "DESC"
	if opts.SortBy != "" {
		allowedSorts := map[string]bool{
			"title":      true,
			"status":     true,
			"priority":   true,
			"due_date":   true,
			"created_at": true,
		}
		if allowedSorts[opts.SortBy] {
			sortBy = opts.SortBy
			direction = "ASC"
			if opts.SortDesc {
				direction = "DESC"
			}
		}
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id DESC", sortBy, direction)

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	var tasks []model.Task
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	return tasks, nil
}

// GetTaskByID retrieves a single cached task.
func (s *SQLiteStore) GetTaskByID(
	ctx context.Context,
	id int64,
) (*model.Task, error) {
	var task model.Task
	if err := s.db.GetContext(ctx, &task, "SELECT * FROM tasks WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	return &task, nil
}

// GetUnreadNotifications retrieves all cached notifications that have not
// been read, ordered by creation time descending.
func (s *SQLiteStore) GetUnreadNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.SelectContext(ctx, &notifications,
		"SELECT * FROM notifications WHERE is_read = 0 ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	return notifications, nil
}

// LastSyncedAt returns when the cache was last replaced. The bool is
// false if it never was.
func (s *SQLiteStore) LastSyncedAt(ctx context.Context) (time.Time, bool, error) {
	var at time.Time
	err := s.db.GetContext(ctx, &at, "SELECT synced_at FROM sync_state WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading sync time: %w", err)
	}
	return at, true, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
