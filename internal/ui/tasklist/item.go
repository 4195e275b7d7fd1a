package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		i.Task.Status,
		i.Task.Priority,
		relativeTime(i.Task.CreatedAt, time.Now()),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	styles *theme.Styles
	now    func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderRow(*d.styles, ti.Task, index == m.Index(), d.now()))
}

func renderRow(s theme.Styles, t model.Task, selected bool, now time.Time) string {
	prefix := "○"
	if t.IsDone() {
		prefix = "✓"
	}

	statusBadge := s.StatusStyle(t.Status).Render(statusLabel(t.Status))
	priBadge := s.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority))

	due := ""
	if t.DueDate != nil {
		due = s.DueDate.Render(" " + t.DueDate.Local().Format("Jan 02 15:04"))
	}
	overdue := ""
	if t.IsOverdue(now) {
		overdue = s.Overdue.Render(" OVERDUE")
	}

	line := fmt.Sprintf("%s %s %s %s%s%s", prefix, statusBadge, priBadge, t.Title, due, overdue)

	if t.IsDone() {
		line = s.Dimmed.Render(line)
	}
	if selected {
		return s.SelectedItem.Render(line)
	}
	return s.ListItem.Render(line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	}
}

func statusLabel(status string) string {
	switch status {
	case model.StatusTodo:
		return "TODO"
	case model.StatusInProgress:
		return "DOING"
	case model.StatusDone:
		return "DONE"
	default:
		return strings.ToUpper(status)
	}
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p string) string {
	switch p {
	case model.PriorityHigh:
		return "P1"
	case model.PriorityMedium:
		return "P2"
	case model.PriorityLow:
		return "P3"
	default:
		return "P?"
	}
}
