package app

import (
	"context"
	"log"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/dom"
	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/pomodoro"
	"github.com/nhle/focusflow/internal/store"
)

// cachedSnapshotMsg carries the snapshot stored by the previous session.
type cachedSnapshotMsg struct {
	tasks  []model.Task
	unread []model.Notification
}

// formSubmittedMsg carries the outcome of a native form submission.
type formSubmittedMsg struct {
	action string
	err    error
}

// pomodoroCountMsg carries today's finished session count.
type pomodoroCountMsg struct {
	count int
}

// configSavedMsg reports a background config write.
type configSavedMsg struct {
	err error
}

// loadCached returns a command that reads the cached snapshot.
func (m Model) loadCached() tea.Cmd {
	s := m.store
	if s == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		tasks, err := s.GetTasks(ctx, store.TaskFilter{})
		if err != nil {
			log.Printf("reading cached tasks: %v", err)
			return nil
		}
		unread, err := s.GetUnreadNotifications(ctx)
		if err != nil {
			log.Printf("reading cached notifications: %v", err)
		}
		return cachedSnapshotMsg{tasks: tasks, unread: unread}
	}
}

// submitForm performs what the form would do natively.
func (m Model) submitForm(form dom.Form) tea.Cmd {
	forms, ctx := m.forms, m.ctx
	return func() tea.Msg {
		err := forms.SubmitForm(ctx, form.Method, form.Action, url.Values{})
		return formSubmittedMsg{action: form.Action, err: err}
	}
}

// recordPomodoro stores a finished session and refreshes today's count.
func (m Model) recordPomodoro(msg pomodoro.ExpiredMsg) tea.Cmd {
	s := m.store
	if s == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		err := s.RecordPomodoro(ctx, model.PomodoroSession{
			PlannedSec:  int(msg.Planned / time.Second),
			CompletedAt: msg.At,
		})
		if err != nil {
			log.Printf("recording pomodoro: %v", err)
		}
		return countSince(ctx, s, startOfDay(time.Now()))
	}
}

// countToday returns a command that counts today's finished sessions.
func (m Model) countToday() tea.Cmd {
	s := m.store
	if s == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return countSince(ctx, s, startOfDay(time.Now()))
	}
}

func countSince(ctx context.Context, s store.Store, since time.Time) tea.Msg {
	n, err := s.CountPomodorosSince(ctx, since)
	if err != nil {
		log.Printf("counting pomodoros: %v", err)
		return nil
	}
	return pomodoroCountMsg{count: n}
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// saveConfig persists the current configuration in the background.
func (m Model) saveConfig() tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	cfg := *m.cfg
	path := m.configPath
	return func() tea.Msg {
		return configSavedMsg{err: model.SaveConfig(path, &cfg)}
	}
}
