package pomodoro

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/theme"
	"github.com/nhle/focusflow/internal/toast"
)

// DoneMessage is the toast shown when a countdown expires.
const DoneMessage = "Pomodoro done!"

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg is one second of the tick source. Ticks belonging to another
// timer, or to a source that has since been cancelled, are dropped.
type TickMsg struct {
	ID  int
	tag int
}

// ExpiredMsg reports that a timer reached zero naturally.
type ExpiredMsg struct {
	ID      int
	Planned time.Duration
	At      time.Time
}

// Model is the Bubble Tea component that owns one Countdown and its tick
// source. At most one tick chain is live: every start, stop and reset
// bumps tag, and only ticks carrying the current tag are honored.
type Model struct {
	id        int
	tag       int
	countdown Countdown
	interval  time.Duration
	now       func() time.Time
}

// New creates a timer for minutes (see NewCountdown for defaults).
func New(minutes int) Model {
	return Model{
		id:        nextID(),
		countdown: NewCountdown(minutes),
		interval:  time.Second,
		now:       time.Now,
	}
}

// ID returns the timer identity used to route tick messages.
func (m Model) ID() int { return m.id }

// Countdown returns a copy of the underlying state.
func (m Model) Countdown() Countdown { return m.countdown }

// State is a shortcut for Countdown().State().
func (m Model) State() State { return m.countdown.State() }

// Display is a shortcut for Countdown().Display().
func (m Model) Display() string { return m.countdown.Display() }

// Init implements tea.Model; the timer does not start on its own.
func (m Model) Init() tea.Cmd { return nil }

// Start begins counting down. It is a no-op (nil command) while Running.
func (m *Model) Start() tea.Cmd {
	if !m.countdown.Start() {
		return nil
	}
	m.tag++
	return m.tick()
}

// Stop pauses a running timer and cancels its tick source.
func (m *Model) Stop() {
	if m.countdown.Stop() {
		m.tag++
	}
}

// Reset cancels any tick source and restores the configured duration.
func (m *Model) Reset() {
	m.countdown.Reset()
	m.tag++
}

// Update handles tick messages for this timer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != m.id || tick.tag != m.tag {
		return m, nil
	}

	if m.countdown.Tick() {
		m.tag++
		expired := ExpiredMsg{
			ID:      m.id,
			Planned: time.Duration(m.countdown.Total()) * time.Second,
			At:      m.now(),
		}
		return m, tea.Batch(
			toast.Show(DoneMessage),
			func() tea.Msg { return expired },
		)
	}

	if m.countdown.Running() {
		return m, m.tick()
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	id, tag := m.id, m.tag
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, tag: tag}
	})
}

// View renders the remaining time styled by state.
func (m Model) View(s theme.Styles) string {
	style := s.Timer
	switch m.countdown.State() {
	case Running:
		style = s.TimerRunning
	case Expired:
		style = s.TimerExpired
	}
	return style.Render("🍅 " + m.countdown.Display())
}
