package tasklist

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/theme"
)

// Model is the task list view component. It renders whatever the last
// snapshot held and tracks the focused row.
type Model struct {
	list   list.Model
	styles *theme.Styles
	width  int
	height int
}

// New creates a new task list model. styles is shared with the caller so a
// theme switch is picked up on the next render.
func New(styles *theme.Styles, width, height int) Model {
	delegate := ItemDelegate{styles: styles, now: time.Now}
	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		styles: styles,
		width:  width,
		height: height,
	}
}

// SetTasks replaces the rows, keeping focus on the same task when it is
// still present.
func (m *Model) SetTasks(tasks []model.Task) tea.Cmd {
	prev, hadPrev := m.Selected()

	items := make([]list.Item, len(tasks))
	sel := 0
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
		if hadPrev && t.ID == prev.ID {
			sel = i
		}
	}
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(sel)
	}
	return cmd
}

// Selected returns the focused task.
func (m Model) Selected() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Len returns the number of rows.
func (m Model) Len() int { return len(m.list.Items()) }

// Update delegates navigation keys to the list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the task list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Inherit(m.styles.Help)

	return style.Render("No tasks yet.\n\nPress r to refresh.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
