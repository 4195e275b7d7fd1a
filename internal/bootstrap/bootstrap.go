// Package bootstrap turns the flash messages delivered with a page load
// into toasts, once.
package bootstrap

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/toast"
)

// Pusher shows a toast and returns the command driving it.
type Pusher interface {
	Push(text string, d time.Duration) tea.Cmd
}

// Queue holds the messages of one page load. The zero value is an empty,
// already drained queue.
type Queue struct {
	messages []model.ServerMessage
	drained  bool
}

// NewQueue captures msgs. A nil slice means the page carried none.
func NewQueue(msgs []model.ServerMessage) *Queue {
	return &Queue{messages: append([]model.ServerMessage(nil), msgs...)}
}

// Len returns how many messages are still waiting.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.messages)
}

// Drained reports whether Drain already ran.
func (q *Queue) Drained() bool {
	return q == nil || q.drained
}

// Drain shows every queued message in order through p, then discards the
// queue. Later calls do nothing.
func Drain(q *Queue, p Pusher) tea.Cmd {
	if q.Drained() {
		return nil
	}
	msgs := q.messages
	q.messages = nil
	q.drained = true

	cmds := make([]tea.Cmd, 0, len(msgs))
	for _, m := range msgs {
		cmds = append(cmds, p.Push(m.Text, toast.UseDefault))
	}
	return tea.Batch(cmds...)
}
