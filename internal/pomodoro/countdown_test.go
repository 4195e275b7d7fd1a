package pomodoro

import (
	"math"
	"testing"
)

func TestNewCountdownDefaults(t *testing.T) {
	for _, minutes := range []int{0, -3, math.MaxInt/60 + 1, math.MaxInt} {
		c := NewCountdown(minutes)
		if c.Total() != DefaultMinutes*60 {
			t.Errorf("NewCountdown(%d).Total() = %d, want %d", minutes, c.Total(), DefaultMinutes*60)
		}
	}
	if c := NewCountdown(math.MaxInt / 60); c.Total() <= 0 {
		t.Fatalf("largest valid minute count overflowed: %d", c.Total())
	}
	c := NewCountdown(1)
	if c.Total() != 60 || c.Remaining() != 60 || c.State() != Idle {
		t.Fatalf("unexpected fresh countdown: %+v", c)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{1, "00:01"},
		{59, "00:59"},
		{60, "01:00"},
		{25 * 60, "25:00"},
		{99*60 + 59, "99:59"},
		{99 * 60, "99:00"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestCountdownRunsToZero(t *testing.T) {
	for _, minutes := range []int{1, 2, 25, 99} {
		c := NewCountdown(minutes)
		if !c.Start() {
			t.Fatalf("%d min: Start() = false", minutes)
		}
		expiries := 0
		for i := 0; i < minutes*60; i++ {
			if c.Tick() {
				expiries++
			}
		}
		if c.Display() != "00:00" {
			t.Errorf("%d min: display = %q, want 00:00", minutes, c.Display())
		}
		if c.Running() || c.State() != Expired {
			t.Errorf("%d min: state = %v, want expired", minutes, c.State())
		}
		if expiries != 1 {
			t.Errorf("%d min: %d expiries, want 1", minutes, expiries)
		}
	}
}

func TestCountdownStopKeepsRemaining(t *testing.T) {
	c := NewCountdown(1)
	c.Start()
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	if !c.Stop() {
		t.Fatal("Stop() on running countdown = false")
	}
	if c.Stop() {
		t.Fatal("second Stop() should be a no-op")
	}
	if c.Tick() {
		t.Fatal("tick while paused must not expire")
	}
	if c.Remaining() != 50 || c.State() != Paused {
		t.Fatalf("after stop: remaining=%d state=%v", c.Remaining(), c.State())
	}

	if !c.Start() {
		t.Fatal("Start() after Stop() = false")
	}
	c.Tick()
	if c.Remaining() != 49 {
		t.Fatalf("resume should continue from 50, got %d", c.Remaining())
	}
}

func TestCountdownResetFromAnyState(t *testing.T) {
	idle := NewCountdown(2)
	running := NewCountdown(2)
	running.Start()
	running.Tick()
	paused := NewCountdown(2)
	paused.Start()
	paused.Tick()
	paused.Stop()
	expired := NewCountdown(1)
	expired.Start()
	for i := 0; i < 60; i++ {
		expired.Tick()
	}

	for name, c := range map[string]*Countdown{
		"idle": &idle, "running": &running, "paused": &paused, "expired": &expired,
	} {
		c.Reset()
		if c.Remaining() != c.Total() || c.State() != Idle {
			t.Errorf("%s: after reset remaining=%d total=%d state=%v",
				name, c.Remaining(), c.Total(), c.State())
		}
	}
}

func TestExpiredIgnoresStart(t *testing.T) {
	c := NewCountdown(1)
	c.Start()
	for i := 0; i < 60; i++ {
		c.Tick()
	}
	if c.Start() {
		t.Fatal("Start() on an expired countdown should be refused")
	}
	c.Reset()
	if !c.Start() {
		t.Fatal("Start() after Reset() should succeed")
	}
}
