package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusflow/internal/theme"
)

func TestContentHeight(t *testing.T) {
	if got := NewLayout(80, 24).ContentHeight(); got != 22 {
		t.Errorf("ContentHeight = %d, want 22", got)
	}
	if got := NewLayout(80, 1).ContentHeight(); got != 0 {
		t.Errorf("ContentHeight = %d, want 0", got)
	}
}

func TestHeaderFillsWidth(t *testing.T) {
	l := NewLayout(60, 10)
	h := l.RenderHeader(theme.New(false), "FocusFlow", "synced")
	if w := lipgloss.Width(h); w != 60 {
		t.Errorf("header width = %d, want 60", w)
	}
}

func TestOverlay(t *testing.T) {
	l := NewLayout(40, 7)
	content := strings.Repeat("row\n", 4) + "row"

	if got := l.Overlay(content, ""); got != content {
		t.Fatal("empty rack should leave content unchanged")
	}

	got := l.Overlay(content, "toast")
	if lipgloss.Height(got) != l.ContentHeight() {
		t.Errorf("overlay height = %d, want %d", lipgloss.Height(got), l.ContentHeight())
	}
	if !strings.Contains(strings.Split(got, "\n")[0], "toast") {
		t.Errorf("rack should be on the first line: %q", got)
	}
}

func TestClip(t *testing.T) {
	if got := clip("a\nb\nc", 2); got != "a\nb" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("a\nb", 5); got != "a\nb" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("a", 0); got != "" {
		t.Errorf("clip = %q", got)
	}
}
