package page

import (
	"testing"

	"github.com/nhle/focusflow/internal/action"
	"github.com/nhle/focusflow/internal/dom"
	"github.com/nhle/focusflow/internal/model"
)

func TestBuildRows(t *testing.T) {
	tasks := []model.Task{
		{ID: 42, Title: "open", Status: model.StatusTodo},
		{ID: 7, Title: "closed", Status: model.StatusDone},
	}
	p := Build(tasks, []model.Notification{{ID: 1}}, Options{PomodoroMinutes: 25})

	open, ok := p.Row(42)
	if !ok || open.Complete == nil || open.Delete == nil {
		t.Fatalf("row 42 = %+v, ok=%v", open, ok)
	}
	if v, _ := open.Complete.Attr(action.MarkerComplete); v != "42" {
		t.Errorf("complete marker = %q", v)
	}

	done, ok := p.Row(7)
	if !ok || done.Complete != nil {
		t.Fatalf("finished task should have no complete control: %+v", done)
	}

	ev := dom.NewClick(done.Delete)
	form, ok := ev.DefaultAction()
	if !ok || form.Action != "/tasks/7/delete/" || form.Method != "post" {
		t.Fatalf("delete form = %+v, ok=%v", form, ok)
	}

	if p.Unread != 1 {
		t.Errorf("Unread = %d", p.Unread)
	}
	if _, ok := p.Row(99); ok {
		t.Error("unknown task should have no row")
	}
}

func TestBuildOptions(t *testing.T) {
	p := Build(nil, nil, Options{Dark: true, ToastsEnabled: true, PomodoroMinutes: 50})
	if !p.Dark() {
		t.Error("expected dark body")
	}
	if !p.HasToastContainer() {
		t.Error("expected toast container")
	}
	if got := p.PomodoroMinutes(); got != 50 {
		t.Errorf("PomodoroMinutes = %d", got)
	}

	bare := Build(nil, nil, Options{})
	if bare.Dark() || bare.HasToastContainer() {
		t.Error("bare page should be light without a container")
	}

	var nilPage *Page
	if nilPage.HasToastContainer() || nilPage.PomodoroMinutes() != 0 {
		t.Error("nil page should be inert")
	}
}
