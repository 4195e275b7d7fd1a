// Package toast shows short-lived notification messages.
//
// A toast is inserted in the Entering phase, becomes Visible on the next
// frame, turns Leaving once its duration has elapsed, and is removed from
// the display list after a short grace period. Toasts are never edited once
// shown. A Notifier without a container accepts every call and does nothing.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusflow/internal/theme"
)

// Defaults used when the notifier is built without explicit timings.
const (
	DefaultDuration = 3200 * time.Millisecond
	DefaultGrace    = 250 * time.Millisecond
)

// UseDefault asks the notifier to apply its configured duration.
const UseDefault time.Duration = -1

// Phase is the display phase of a toast.
type Phase int

const (
	Entering Phase = iota
	Visible
	Leaving
)

// Toast is a single message on the display list.
type Toast struct {
	ID       int
	Text     string
	Duration time.Duration
	Phase    Phase
}

// ShowMsg asks the notifier to display Text for Duration.
type ShowMsg struct {
	Text     string
	Duration time.Duration
}

type frameMsg struct{ id int }

type leaveMsg struct{ id int }

type removeMsg struct{ id int }

// Show returns a command that displays text for the notifier's default
// duration.
func Show(text string) tea.Cmd {
	return ShowFor(text, UseDefault)
}

// ShowFor returns a command that displays text for d.
func ShowFor(text string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ShowMsg{Text: text, Duration: d}
	}
}

// Container is the mount point toasts are appended to.
type Container struct {
	toasts []Toast
	nextID int
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{}
}

// Toasts returns a copy of the display list in insertion order.
func (c *Container) Toasts() []Toast {
	if c == nil {
		return nil
	}
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Len returns the number of toasts on the display list.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.toasts)
}

func (c *Container) find(id int) int {
	for i, t := range c.toasts {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Notifier owns the toast lifecycle.
type Notifier struct {
	container *Container
	duration  time.Duration
	grace     time.Duration
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithDuration sets the default display duration.
func WithDuration(d time.Duration) Option {
	return func(n *Notifier) {
		if d >= 0 {
			n.duration = d
		}
	}
}

// WithGrace sets the delay between Leaving and removal.
func WithGrace(d time.Duration) Option {
	return func(n *Notifier) {
		if d >= 0 {
			n.grace = d
		}
	}
}

// New creates a notifier that mounts toasts into c. A nil container makes
// every Show a no-op.
func New(c *Container, opts ...Option) Notifier {
	n := Notifier{
		container: c,
		duration:  DefaultDuration,
		grace:     DefaultGrace,
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// nextFrame delivers msg on the following update, after the current
// frame has rendered.
func nextFrame(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Container returns the mount point, which may be nil.
func (n Notifier) Container() *Container { return n.container }

// Push appends a toast immediately and returns the commands that drive
// its lifecycle. A negative d selects the default duration. Without a
// container Push does nothing and returns nil.
func (n Notifier) Push(text string, d time.Duration) tea.Cmd {
	c := n.container
	if c == nil {
		return nil
	}
	if d < 0 {
		d = n.duration
	}
	c.nextID++
	id := c.nextID
	c.toasts = append(c.toasts, Toast{ID: id, Text: text, Duration: d, Phase: Entering})
	return tea.Batch(
		nextFrame(frameMsg{id: id}),
		tea.Tick(d, func(time.Time) tea.Msg { return leaveMsg{id: id} }),
	)
}

// Update advances toast lifecycles.
func (n Notifier) Update(msg tea.Msg) (Notifier, tea.Cmd) {
	if n.container == nil {
		return n, nil
	}
	c := n.container

	switch msg := msg.(type) {
	case ShowMsg:
		return n, n.Push(msg.Text, msg.Duration)

	case frameMsg:
		if i := c.find(msg.id); i >= 0 && c.toasts[i].Phase == Entering {
			c.toasts[i].Phase = Visible
		}
		return n, nil

	case leaveMsg:
		i := c.find(msg.id)
		if i < 0 {
			return n, nil
		}
		c.toasts[i].Phase = Leaving
		id := msg.id
		return n, tea.Tick(n.grace, func(time.Time) tea.Msg { return removeMsg{id: id} })

	case removeMsg:
		if i := c.find(msg.id); i >= 0 {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
		}
		return n, nil
	}

	return n, nil
}

// View renders the display list top to bottom in order of appearance.
func (n Notifier) View(s theme.Styles) string {
	if n.container.Len() == 0 {
		return ""
	}

	rows := make([]string, 0, n.container.Len())
	for _, t := range n.container.toasts {
		style := s.Toast
		switch t.Phase {
		case Entering:
			style = s.ToastEntering
		case Leaving:
			style = s.ToastLeaving
		}
		rows = append(rows, style.Render(t.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rows...)
}
