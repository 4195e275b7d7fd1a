package app

import (
	"fmt"
	"strings"

	appsync "github.com/nhle/focusflow/internal/sync"
)

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	s := *m.styles

	title := "FocusFlow"
	if m.page.Unread > 0 {
		title = fmt.Sprintf("FocusFlow [%d unread]", m.page.Unread)
	}
	header := m.layout.RenderHeader(s, title, m.headerStatus())

	content := m.layout.Overlay(m.renderContent(), m.notifier.View(s))
	statusBar := m.layout.RenderStatusBar(s, m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	s := *m.styles
	switch m.currentView {
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View(s)
	case ViewCommand:
		return m.commandView.View(s)
	case ViewConfirm:
		return m.confirmView.View(s)
	default:
		return m.taskList.View()
	}
}

// headerStatus shows the timer, today's sessions and the sync state.
func (m Model) headerStatus() string {
	parts := []string{m.timer.View(*m.styles)}
	if m.todayPomodoro > 0 {
		parts = append(parts, fmt.Sprintf("×%d today", m.todayPomodoro))
	}
	parts = append(parts, m.syncStatus())
	return strings.Join(parts, "  ")
}

// syncStatus returns a short string describing the dashboard sync state.
func (m Model) syncStatus() string {
	if m.loading {
		return m.spinner.View() + " syncing"
	}
	if m.offline {
		return "⚠ offline"
	}
	if m.poller == nil {
		return "local"
	}

	st := m.poller.Status()
	switch {
	case st.State == appsync.SyncRunning:
		return m.spinner.View() + " syncing"
	case m.newTasks > 0:
		return fmt.Sprintf("%d new · synced %s", m.newTasks, st.LastSync.Format("15:04"))
	case !st.LastSync.IsZero():
		return "synced " + st.LastSync.Format("15:04")
	default:
		return "idle"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewConfirm:
		return "y yes | n no | esc cancel"
	case ViewDetail:
		return "esc back | j/k scroll"
	}

	hints := "q quit | ? help | x complete | d delete | R read all | s/p/0 timer | T theme"
	if n := m.dispatcher.Pending(); n > 0 {
		hints = fmt.Sprintf("%d pending | %s", n, hints)
	}
	return hints
}
