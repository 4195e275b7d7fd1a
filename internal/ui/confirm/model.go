package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/focusflow/internal/theme"
)

// AnsweredMsg is emitted once when the prompt is answered or dismissed.
// Dismissal counts as declining.
type AnsweredMsg struct {
	Ref int64
	Yes bool
}

// Model is a modal yes/no prompt.
type Model struct {
	form   *huh.Form
	answer *bool
	ref    int64
	done   bool
}

// New builds a prompt. ref is returned unchanged in the AnsweredMsg so the
// caller can tell which element asked.
func New(prompt string, ref int64, width int) Model {
	answer := new(bool)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(answer),
		),
	).WithWidth(width).WithShowHelp(false)

	return Model{form: form, answer: answer, ref: ref}
}

// Init returns the form's initial command.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Done reports whether the answer has been emitted.
func (m Model) Done() bool { return m.done }

// Update feeds msg to the form and emits AnsweredMsg when it finishes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.finish(*m.answer)
	case huh.StateAborted:
		return m.finish(false)
	}
	return m, cmd
}

func (m Model) finish(yes bool) (Model, tea.Cmd) {
	m.done = true
	ref := m.ref
	return m, func() tea.Msg { return AnsweredMsg{Ref: ref, Yes: yes} }
}

// View renders the prompt in a panel.
func (m Model) View(s theme.Styles) string {
	return s.Panel.Render(m.form.View())
}
