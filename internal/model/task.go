package model

import "time"

// Task status values as reported by the dashboard API.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task priority values as reported by the dashboard API.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a dashboard task as served by /api/tasks/.
type Task struct {
	// ID is the server-assigned primary key.
	ID int64 `json:"id" db:"id"`

	// UserID is the owning user.
	UserID int64 `json:"user_id" db:"user_id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title" db:"title"`

	// Description is the full body text.
	Description string `json:"description" db:"description"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority" db:"priority"`

	// Status is one of the Status* constants.
	Status string `json:"status" db:"status"`

	// DueDate is when the task is due, if set.
	DueDate *time.Time `json:"due_date" db:"due_date"`

	// CreatedAt is when the task was created on the server.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// CompletedAt is set once the task has been completed.
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
}

// IsDone reports whether the task has been completed.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsOverdue reports whether the task is past its due date and still open.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.IsDone()
}
