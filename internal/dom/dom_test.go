package dom

import "testing"

func TestClosestWalksAncestors(t *testing.T) {
	doc := NewDocument()
	row := New("li").WithAttr("data-task-id", "7")
	btn := New("button").WithAttr("data-complete-task", "7")
	label := New("span")
	btn.Append(label)
	row.Append(btn)
	doc.Body.Append(row)

	if got := label.Closest("data-complete-task"); got != btn {
		t.Fatalf("Closest from child = %v, want the button", got)
	}
	if got := label.Closest("data-task-id"); got != row {
		t.Fatalf("Closest = %v, want the row", got)
	}
	if got := label.Closest("data-delete-task"); got != nil {
		t.Fatalf("Closest for absent marker = %v, want nil", got)
	}
}

func TestAppendReparents(t *testing.T) {
	a := New("div")
	b := New("div")
	c := New("span")
	a.Append(c)
	b.Append(c)

	if len(a.Children()) != 0 {
		t.Fatalf("old parent still has %d children", len(a.Children()))
	}
	if c.Parent() != b {
		t.Fatal("child not reparented")
	}
}

func TestToggleClass(t *testing.T) {
	body := NewDocument().Body
	if !body.ToggleClass("dark") || !body.HasClass("dark") {
		t.Fatal("first toggle should set the class")
	}
	if body.ToggleClass("dark") || body.HasClass("dark") {
		t.Fatal("second toggle should clear the class")
	}
}

func TestDefaultAction(t *testing.T) {
	form := NewForm("POST", "/tasks/3/delete/")
	btn := New("button").WithAttr("data-delete-task", "3")
	form.Append(btn)

	ev := NewClick(btn)
	f, ok := ev.DefaultAction()
	if !ok || f.Method != "POST" || f.Action != "/tasks/3/delete/" {
		t.Fatalf("DefaultAction = (%+v, %v)", f, ok)
	}

	ev.PreventDefault()
	if _, ok := ev.DefaultAction(); ok {
		t.Fatal("prevented event must not submit")
	}

	loose := NewClick(New("button"))
	if _, ok := loose.DefaultAction(); ok {
		t.Fatal("target outside a form has no default action")
	}
}

func TestGetElementByID(t *testing.T) {
	doc := NewDocument()
	doc.Body.Append(New("div").Append(New("div").WithID("toast-container")))

	if doc.GetElementByID("toast-container") == nil {
		t.Fatal("container not found")
	}
	if doc.GetElementByID("missing") != nil {
		t.Fatal("unexpected element")
	}

	var nilDoc *Document
	if nilDoc.GetElementByID("x") != nil {
		t.Fatal("nil document should find nothing")
	}
}
