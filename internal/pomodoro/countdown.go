// Package pomodoro implements the focus countdown timer.
package pomodoro

import (
	"fmt"
	"math"
)

// DefaultMinutes is the duration used when none (or an invalid one) is
// configured.
const DefaultMinutes = 25

// State is the countdown state.
type State int

const (
	// Idle: never started or freshly reset; full time remaining.
	Idle State = iota
	// Running: one tick source active.
	Running
	// Paused: stopped by hand with time left.
	Paused
	// Expired: reached zero by counting down.
	Expired
)

// String returns a lowercase name for the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Countdown is the timer state machine. It holds no clock of its own;
// the owner calls Tick once per elapsed second while Running.
type Countdown struct {
	total     int
	remaining int
	state     State
}

// NewCountdown builds a countdown for minutes. Non-positive values, and
// values whose length in seconds would not fit an int, fall back to
// DefaultMinutes.
func NewCountdown(minutes int) Countdown {
	if minutes <= 0 || minutes > math.MaxInt/60 {
		minutes = DefaultMinutes
	}
	total := minutes * 60
	return Countdown{total: total, remaining: total, state: Idle}
}

// Total returns the configured duration in seconds.
func (c Countdown) Total() int { return c.total }

// Remaining returns the seconds left.
func (c Countdown) Remaining() int { return c.remaining }

// State returns the current state.
func (c Countdown) State() State { return c.state }

// Running reports whether a tick source should be active.
func (c Countdown) Running() bool { return c.state == Running }

// Start moves an Idle or Paused countdown to Running. It reports false
// when already Running or Expired.
func (c *Countdown) Start() bool {
	if c.state == Running || c.state == Expired {
		return false
	}
	c.state = Running
	return true
}

// Stop pauses a Running countdown, keeping the remaining time. It reports
// false when not Running.
func (c *Countdown) Stop() bool {
	if c.state != Running {
		return false
	}
	c.state = Paused
	return true
}

// Reset restores the full duration and returns to Idle from any state.
func (c *Countdown) Reset() {
	c.remaining = c.total
	c.state = Idle
}

// Tick consumes one second. It reports true exactly when this tick
// expired the countdown. Ticks outside Running are ignored.
func (c *Countdown) Tick() bool {
	if c.state != Running {
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.state = Expired
		return true
	}
	return false
}

// Display renders the remaining time as zero-padded MM:SS.
func (c Countdown) Display() string {
	return FormatClock(c.remaining)
}

// FormatClock renders seconds as zero-padded MM:SS. Minutes are not
// wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
