package pomodoro

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/toast"
)

// currentTick is the message the live tick source would deliver next.
func currentTick(m Model) TickMsg {
	return TickMsg{ID: m.id, tag: m.tag}
}

// advance delivers n live ticks and returns the command from the last one.
func advance(m Model, n int) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		m, cmd = m.Update(currentTick(m))
	}
	return m, cmd
}

func TestStartTwiceKeepsOneTickSource(t *testing.T) {
	m := New(1)

	if cmd := m.Start(); cmd == nil {
		t.Fatal("first Start() should schedule a tick")
	}
	stale := currentTick(m)
	if cmd := m.Start(); cmd != nil {
		t.Fatal("second Start() must not schedule another tick")
	}
	if currentTick(m) != stale {
		t.Fatal("second Start() must not replace the tick source")
	}

	m, cmd := m.Update(currentTick(m))
	if m.Countdown().Remaining() != 59 {
		t.Fatalf("remaining = %d, want 59", m.Countdown().Remaining())
	}
	if cmd == nil {
		t.Fatal("running timer should schedule the next tick")
	}
}

func TestStaleTicksAreDropped(t *testing.T) {
	m := New(1)
	m.Start()
	oldSource := currentTick(m)

	m.Stop()
	m.Start()

	m, cmd := m.Update(oldSource)
	if cmd != nil || m.Countdown().Remaining() != 60 {
		t.Fatalf("stale tick decremented: remaining=%d", m.Countdown().Remaining())
	}

	m, _ = m.Update(currentTick(m))
	if m.Countdown().Remaining() != 59 {
		t.Fatalf("live tick ignored: remaining=%d", m.Countdown().Remaining())
	}
}

func TestTicksForOtherTimersAreIgnored(t *testing.T) {
	a := New(1)
	b := New(1)
	a.Start()
	b.Start()

	a, _ = a.Update(currentTick(b))
	if a.Countdown().Remaining() != 60 {
		t.Fatal("timer consumed another timer's tick")
	}
}

func TestOneMinuteScenario(t *testing.T) {
	m := New(1)
	m.Start()

	m, _ = advance(m, 59)
	if m.Display() != "00:01" || m.State() != Running {
		t.Fatalf("after 59s: display=%q state=%v", m.Display(), m.State())
	}

	m, cmd := m.Update(currentTick(m))
	if m.Display() != "00:00" || m.State() != Expired {
		t.Fatalf("after 60s: display=%q state=%v", m.Display(), m.State())
	}
	if cmd == nil {
		t.Fatal("expiry should produce commands")
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected batch, got %T", cmd())
	}
	toasts := 0
	expired := 0
	for _, c := range batch {
		switch msg := c().(type) {
		case toast.ShowMsg:
			toasts++
			if msg.Text != DoneMessage {
				t.Errorf("toast text = %q", msg.Text)
			}
		case ExpiredMsg:
			expired++
			if msg.Planned.Seconds() != 60 {
				t.Errorf("planned = %v, want 1m", msg.Planned)
			}
		}
	}
	if toasts != 1 || expired != 1 {
		t.Fatalf("toasts=%d expired=%d, want 1 each", toasts, expired)
	}

	// The source is gone; a late tick changes nothing.
	m, cmd = m.Update(TickMsg{ID: m.id, tag: m.tag - 1})
	if cmd != nil || m.Display() != "00:00" {
		t.Fatal("tick after expiry had an effect")
	}
}

func TestStopThenStartResumes(t *testing.T) {
	m := New(2)
	m.Start()
	m, _ = advance(m, 30)
	m.Stop()

	if m.State() != Paused || m.Display() != "01:30" {
		t.Fatalf("after stop: state=%v display=%q", m.State(), m.Display())
	}
	if cmd := m.Start(); cmd == nil {
		t.Fatal("Start() after Stop() should schedule a tick")
	}
	m, _ = m.Update(currentTick(m))
	if m.Display() != "01:29" {
		t.Fatalf("resume display = %q, want 01:29", m.Display())
	}
}

func TestResetCancelsSource(t *testing.T) {
	m := New(1)
	m.Start()
	m, _ = advance(m, 5)
	live := currentTick(m)

	m.Reset()
	if m.State() != Idle || m.Display() != "01:00" {
		t.Fatalf("after reset: state=%v display=%q", m.State(), m.Display())
	}

	m, cmd := m.Update(live)
	if cmd != nil || m.Display() != "01:00" {
		t.Fatal("tick from before reset was honored")
	}
}
