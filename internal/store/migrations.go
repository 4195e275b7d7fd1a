package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id           INTEGER PRIMARY KEY,
	user_id      INTEGER NOT NULL DEFAULT 0,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	priority     TEXT NOT NULL DEFAULT 'medium',
	status       TEXT NOT NULL DEFAULT 'todo',
	due_date     DATETIME,
	created_at   DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS notifications (
	id         INTEGER PRIMARY KEY,
	task_id    INTEGER NOT NULL,
	message    TEXT NOT NULL,
	is_read    INTEGER NOT NULL DEFAULT 0 CHECK(is_read IN (0, 1)),
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_state (
	id        INTEGER PRIMARY KEY CHECK(id = 1),
	synced_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(is_read);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS diagnostics (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	detail     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS pomodoro_sessions (
	id           TEXT PRIMARY KEY,
	planned_sec  INTEGER NOT NULL CHECK(planned_sec > 0),
	completed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_diagnostics_created ON diagnostics(created_at);
CREATE INDEX IF NOT EXISTS idx_pomodoro_completed ON pomodoro_sessions(completed_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
