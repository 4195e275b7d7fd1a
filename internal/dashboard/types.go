package dashboard

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/nhle/focusflow/internal/model"
)

// Endpoint paths on the dashboard server.
const (
	PagePath          = "/dashboard/"
	TasksPath         = "/api/tasks/"
	NotificationsPath = "/api/notifications/"
	MarkAllReadPath   = "/api/notifications/mark_all_read/"
)

// CompletePath returns the completion endpoint for a task.
func CompletePath(taskID string) string {
	return "/tasks/" + url.PathEscape(taskID) + "/complete/"
}

// DeletePath returns the delete form action for a task.
func DeletePath(taskID string) string {
	return "/tasks/" + url.PathEscape(taskID) + "/delete/"
}

// StatusError is returned when the server answers with a non-2xx status.
// Any other error from a request means no response arrived at all.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d on %s %s", e.Code, e.Method, e.Path)
}

// IsStatusError reports whether err (or any error in its chain) is a
// StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// Page is the list envelope used by paginated API responses.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Snapshot is everything one dashboard load yields.
type Snapshot struct {
	Tasks    []model.Task
	Unread   []model.Notification
	Messages []model.ServerMessage
}
