package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusflow/internal/theme"
)

// Commands understood by the palette.
const (
	Start       = "start"
	Stop        = "stop"
	Reset       = "reset"
	Refresh     = "refresh"
	MarkAllRead = "read"
	Theme       = "theme"
	Quit        = "quit"
)

// Names lists every command in display order.
var Names = []string{Start, Stop, Reset, Refresh, MarkAllRead, Theme, Quit}

var aliases = map[string]string{
	"q":             Quit,
	"mark-all-read": MarkAllRead,
	"dark":          Theme,
	"light":         Theme,
}

// CommandMsg is emitted when the user executes a command. Name is the
// canonical command, or empty when the input matched nothing; Input is
// what was typed.
type CommandMsg struct {
	Name  string
	Input string
}

// Resolve maps typed input to a canonical command name.
func Resolve(input string) (string, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if a, ok := aliases[in]; ok {
		return a, true
	}
	for _, n := range Names {
		if n == in {
			return n, true
		}
	}
	return "", false
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Names)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if raw == "" {
				return m, nil
			}
			name, _ := Resolve(raw)
			return m, func() tea.Msg {
				return CommandMsg{Name: name, Input: raw}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View(s theme.Styles) string {
	title := s.Title.Render("Command Palette")
	hint := s.Help.Render(strings.Join(Names, " · "))

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), hint)

	return s.Panel.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
