package tasklist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/theme"
)

func TestSetTasksKeepsFocus(t *testing.T) {
	s := theme.New(false)
	m := New(&s, 80, 20)

	m.SetTasks([]model.Task{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}, {ID: 3, Title: "c"}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if sel, _ := m.Selected(); sel.ID != 2 {
		t.Fatalf("expected task 2 focused, got %d", sel.ID)
	}

	// Task 1 was completed elsewhere and vanished from the list.
	m.SetTasks([]model.Task{{ID: 2, Title: "b"}, {ID: 3, Title: "c"}})
	if sel, _ := m.Selected(); sel.ID != 2 {
		t.Fatalf("focus should follow task 2, got %d", sel.ID)
	}

	m.SetTasks(nil)
	if _, ok := m.Selected(); ok {
		t.Fatal("empty list should have no selection")
	}
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Error("expected empty state")
	}
}

func TestRenderRowOverdue(t *testing.T) {
	s := theme.New(false)
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	line := renderRow(s, model.Task{Title: "ship", Status: model.StatusTodo, DueDate: &past}, false, now)
	if !strings.Contains(line, "OVERDUE") || !strings.Contains(line, "ship") {
		t.Errorf("row = %q", line)
	}

	line = renderRow(s, model.Task{Title: "ship", Status: model.StatusDone, DueDate: &past}, false, now)
	if strings.Contains(line, "OVERDUE") {
		t.Errorf("done task must not be overdue: %q", line)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{15 * 24 * time.Hour, "2w ago"},
	}
	for _, tt := range tests {
		if got := relativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("relativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
	if relativeTime(time.Time{}, now) != "" {
		t.Error("zero time should render empty")
	}
}
