package dom

import "net/http"

// Event is a click delivered to the root listener.
type Event struct {
	Target    *Element
	prevented bool
}

// NewClick creates a click event targeted at el.
func NewClick(el *Element) *Event {
	return &Event{Target: el}
}

// PreventDefault suppresses the default action (form submission or link
// navigation) that would otherwise follow the event.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Form attribute names.
const (
	AttrMethod = "method"
	AttrAction = "action"
)

// Form describes the submission an enclosing <form> performs natively.
type Form struct {
	Method string
	Action string
}

// NewForm creates a form element that submits to action.
func NewForm(method, action string) *Element {
	if method == "" {
		method = http.MethodGet
	}
	return New("form").
		WithAttr(AttrMethod, method).
		WithAttr(AttrAction, action)
}

// DefaultAction returns the form submission that follows a click on the
// event target, if the target sits inside a form and nothing prevented it.
func (e *Event) DefaultAction() (Form, bool) {
	if e.prevented || e.Target == nil {
		return Form{}, false
	}
	f := e.Target.ClosestTag("form")
	if f == nil {
		return Form{}, false
	}
	method, _ := f.Attr(AttrMethod)
	action, _ := f.Attr(AttrAction)
	return Form{Method: method, Action: action}, true
}
