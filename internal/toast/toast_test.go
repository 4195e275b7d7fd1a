package toast

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/theme"
)

// show feeds a ShowMsg and runs the next-frame half of the returned batch.
func show(t *testing.T, n Notifier, text string, d time.Duration) (Notifier, int) {
	t.Helper()
	n, cmd := n.Update(ShowMsg{Text: text, Duration: d})
	if cmd == nil {
		t.Fatal("expected a command from ShowMsg")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("expected a two-command batch, got %T", cmd())
	}
	toasts := n.Container().Toasts()
	id := toasts[len(toasts)-1].ID
	n, _ = n.Update(batch[0]())
	return n, id
}

func TestShowWithoutContainerIsNoop(t *testing.T) {
	n := New(nil)

	n, cmd := n.Update(ShowMsg{Text: "hello", Duration: UseDefault})
	if cmd != nil {
		t.Fatal("expected no command without a container")
	}
	if n.Container().Len() != 0 {
		t.Fatal("expected no toasts without a container")
	}
	if got := n.View(theme.New(false)); got != "" {
		t.Fatalf("expected empty view, got %q", got)
	}

	// Lifecycle messages are ignored as well.
	n, _ = n.Update(leaveMsg{id: 1})
	n, _ = n.Update(removeMsg{id: 1})
}

func TestLifecycle(t *testing.T) {
	c := NewContainer()
	n := New(c, WithDuration(time.Second), WithGrace(10*time.Millisecond))

	n, cmd := n.Update(ShowMsg{Text: "Task completed", Duration: UseDefault})
	toasts := c.Toasts()
	if len(toasts) != 1 || toasts[0].Phase != Entering {
		t.Fatalf("after show: %+v", toasts)
	}
	if toasts[0].Duration != time.Second {
		t.Fatalf("default duration not applied: %v", toasts[0].Duration)
	}

	batch := cmd().(tea.BatchMsg)
	n, _ = n.Update(batch[0]())
	if got := c.Toasts()[0].Phase; got != Visible {
		t.Fatalf("after frame phase = %v, want Visible", got)
	}

	id := toasts[0].ID
	n, cmd = n.Update(leaveMsg{id: id})
	if got := c.Toasts()[0].Phase; got != Leaving {
		t.Fatalf("after duration phase = %v, want Leaving", got)
	}
	if cmd == nil {
		t.Fatal("expected a removal command")
	}

	n, _ = n.Update(cmd())
	if c.Len() != 0 {
		t.Fatalf("toast not removed: %+v", c.Toasts())
	}
}

func TestOrderFollowsCallsWithoutDedup(t *testing.T) {
	c := NewContainer()
	n := New(c)

	n, _ = show(t, n, "one", UseDefault)
	n, _ = show(t, n, "two", UseDefault)
	n, _ = show(t, n, "one", UseDefault)

	toasts := c.Toasts()
	want := []string{"one", "two", "one"}
	if len(toasts) != len(want) {
		t.Fatalf("got %d toasts, want %d", len(toasts), len(want))
	}
	for i, w := range want {
		if toasts[i].Text != w {
			t.Errorf("toast %d = %q, want %q", i, toasts[i].Text, w)
		}
	}
}

func TestRemovingOneKeepsOthers(t *testing.T) {
	c := NewContainer()
	n := New(c)

	n, first := show(t, n, "first", UseDefault)
	n, _ = show(t, n, "second", UseDefault)

	n, _ = n.Update(leaveMsg{id: first})
	n, _ = n.Update(removeMsg{id: first})

	toasts := c.Toasts()
	if len(toasts) != 1 || toasts[0].Text != "second" || toasts[0].Phase != Visible {
		t.Fatalf("unexpected display list: %+v", toasts)
	}
}

func TestLeaveBeforeFrameStaysLeaving(t *testing.T) {
	c := NewContainer()
	n := New(c)

	n, cmd := n.Update(ShowMsg{Text: "quick", Duration: 0})
	id := c.Toasts()[0].ID
	batch := cmd().(tea.BatchMsg)

	n, _ = n.Update(leaveMsg{id: id})
	n, _ = n.Update(batch[0]())

	if got := c.Toasts()[0].Phase; got != Leaving {
		t.Fatalf("phase = %v, want Leaving", got)
	}
}

func TestShowCommandCarriesText(t *testing.T) {
	msg, ok := Show("Network error")().(ShowMsg)
	if !ok || msg.Text != "Network error" || msg.Duration != UseDefault {
		t.Fatalf("unexpected msg: %#v", msg)
	}
}
