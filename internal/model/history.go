package model

import "time"

// Diagnostic is a failure kept for later inspection instead of being shown
// to the user.
type Diagnostic struct {
	ID        string    `db:"id"`
	Source    string    `db:"source"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}

// PomodoroSession is one countdown that ran to zero.
type PomodoroSession struct {
	ID          string    `db:"id"`
	PlannedSec  int       `db:"planned_sec"`
	CompletedAt time.Time `db:"completed_at"`
}
