// Package page builds the element tree for one dashboard load.
package page

import (
	"strconv"

	"github.com/nhle/focusflow/internal/action"
	"github.com/nhle/focusflow/internal/dashboard"
	"github.com/nhle/focusflow/internal/dom"
	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/theme"
)

// Element ids.
const (
	ToastContainerID = "toast-container"
	PomodoroID       = "pomodoro"
	TasksID          = "tasks"
	MarkAllReadID    = "mark-all-read"
	ThemeToggleID    = "theme-toggle"
)

// AttrMinutes carries the configured timer length on the pomodoro element.
const AttrMinutes = "data-min"

// Options controls what a page contains.
type Options struct {
	Dark            bool
	ToastsEnabled   bool
	PomodoroMinutes int
}

// Row holds the interactive elements of one task row. Complete is nil for
// finished tasks.
type Row struct {
	Item     *dom.Element
	Complete *dom.Element
	Delete   *dom.Element
}

// Page is a built document plus direct handles on its controls.
type Page struct {
	Doc         *dom.Document
	MarkAllRead *dom.Element
	ThemeToggle *dom.Element
	Unread      int

	rows map[int64]Row
}

// Build creates the document for tasks and unread notifications.
func Build(tasks []model.Task, unread []model.Notification, opts Options) *Page {
	doc := dom.NewDocument()
	if opts.Dark {
		doc.Body.AddClass(theme.DarkClass)
	}

	p := &Page{
		Doc:         doc,
		Unread:      len(unread),
		rows:        make(map[int64]Row, len(tasks)),
		MarkAllRead: dom.New("button").WithID(MarkAllReadID).WithAttr(action.MarkerMarkAllRead, ""),
		ThemeToggle: dom.New("button").WithID(ThemeToggleID).WithAttr(action.MarkerToggleTheme, ""),
	}
	doc.Body.Append(dom.New("header").Append(p.MarkAllRead, p.ThemeToggle))

	doc.Body.Append(
		dom.New("div").
			WithID(PomodoroID).
			WithAttr(AttrMinutes, strconv.Itoa(opts.PomodoroMinutes)),
	)

	list := dom.New("ul").WithID(TasksID)
	for _, t := range tasks {
		id := strconv.FormatInt(t.ID, 10)
		li := dom.New("li").WithID("task-" + id)

		var row Row
		row.Item = li
		if !t.IsDone() {
			row.Complete = dom.New("button").WithAttr(action.MarkerComplete, id)
			li.Append(row.Complete)
		}
		row.Delete = dom.New("button").WithAttr("type", "submit").WithAttr(action.MarkerDelete, id)
		li.Append(dom.NewForm("post", dashboard.DeletePath(id)).Append(row.Delete))

		list.Append(li)
		p.rows[t.ID] = row
	}
	doc.Body.Append(list)

	if opts.ToastsEnabled {
		doc.Body.Append(dom.New("div").WithID(ToastContainerID))
	}

	return p
}

// Row returns the controls for a task.
func (p *Page) Row(taskID int64) (Row, bool) {
	if p == nil {
		return Row{}, false
	}
	r, ok := p.rows[taskID]
	return r, ok
}

// HasToastContainer reports whether the page mounts toasts.
func (p *Page) HasToastContainer() bool {
	return p != nil && p.Doc.GetElementByID(ToastContainerID) != nil
}

// PomodoroMinutes reads the configured minute count from the pomodoro
// element. Missing or malformed values yield zero.
func (p *Page) PomodoroMinutes() int {
	if p == nil {
		return 0
	}
	el := p.Doc.GetElementByID(PomodoroID)
	if el == nil {
		return 0
	}
	v, _ := el.Attr(AttrMinutes)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// Dark reports the body's theme class.
func (p *Page) Dark() bool {
	return p != nil && p.Doc.Body.HasClass(theme.DarkClass)
}
