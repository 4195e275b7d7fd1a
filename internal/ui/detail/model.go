package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusflow/internal/keys"
	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Model is the task detail view component.
type Model struct {
	task          *model.Task
	notifications []model.Notification
	viewport      viewport.Model
	keys          *keys.KeyMap
	styles        *theme.Styles
	width         int
	height        int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, styles *theme.Styles, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		styles:   styles,
		width:    width,
		height:   height,
	}
}

// SetTask shows task together with the unread notifications about it.
func (m *Model) SetTask(task model.Task, unread []model.Notification) {
	m.task = &task
	m.notifications = m.notifications[:0]
	for _, n := range unread {
		if n.TaskID == task.ID {
			m.notifications = append(m.notifications, n)
		}
	}
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// TaskID returns the shown task's id, or zero.
func (m Model) TaskID() int64 {
	if m.task == nil {
		return 0
	}
	return m.task.ID
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return BackMsg{} }
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Inherit(m.styles.Help).
			Render("No task selected.")
	}

	// Content can change with the theme, so render on every frame.
	m.viewport.SetContent(m.renderContent())
	return m.styles.Panel.
		Width(m.width - 4).
		Height(m.height - 2).
		Render(m.viewport.View())
}

func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}
	s := *m.styles
	t := m.task

	var b strings.Builder
	b.WriteString(s.Title.Render(t.Title))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s  %s\n",
		s.StatusStyle(t.Status).Render(t.Status),
		s.PriorityStyle(t.Priority).Render(t.Priority),
		s.Help.Render(fmt.Sprintf("#%d", t.ID)),
	)

	b.WriteString(field(s, "Created", formatTime(&t.CreatedAt)))
	if t.DueDate != nil {
		due := formatTime(t.DueDate)
		if t.IsOverdue(time.Now()) {
			due = s.Overdue.Render(due + " (overdue)")
		}
		b.WriteString(field(s, "Due", due))
	}
	if t.CompletedAt != nil {
		b.WriteString(field(s, "Completed", formatTime(t.CompletedAt)))
	}

	if t.Description != "" {
		b.WriteString("\n")
		b.WriteString(t.Description)
		b.WriteString("\n")
	}

	if len(m.notifications) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Accent().Render("Unread"))
		b.WriteString("\n")
		for _, n := range m.notifications {
			fmt.Fprintf(&b, "  • %s\n", n.Message)
		}
	}

	return b.String()
}

func field(s theme.Styles, label, value string) string {
	return fmt.Sprintf("%s %s\n", s.Help.Render(label+":"), value)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("Mon Jan 02 2006 15:04")
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 6
	m.viewport.Height = height - 4
}
