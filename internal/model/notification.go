package model

import "time"

// Notification represents an alert surfaced to the user about activity
// on one of their tasks.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID int64 `json:"id" db:"id"`

	// TaskID links this notification to the originating task.
	TaskID int64 `json:"task" db:"task_id"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"is_read" db:"is_read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ServerMessage is a one-line flash message rendered into a page by the
// server (e.g., "Task deleted.").
type ServerMessage struct {
	Text string `json:"text"`
}
