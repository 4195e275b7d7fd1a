package action

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/dashboard"
	"github.com/nhle/focusflow/internal/dom"
	"github.com/nhle/focusflow/internal/theme"
	"github.com/nhle/focusflow/internal/toast"
)

// Marker attributes recognized on elements.
const (
	MarkerComplete    = "data-complete-task"
	MarkerDelete      = "data-delete-task"
	MarkerMarkAllRead = "data-mark-all-read"
	MarkerToggleTheme = "data-toggle-theme"
)

// Toast texts.
const (
	MsgCompleted      = "Task completed"
	MsgCompleteFailed = "Could not complete task"
	MsgNetworkError   = "Network error"
	DeletePrompt      = "Delete this task?"
)

// Kind names an action.
type Kind int

const (
	Complete Kind = iota
	Delete
	MarkAllRead
	ToggleTheme
)

func (k Kind) String() string {
	switch k {
	case Complete:
		return "complete"
	case Delete:
		return "delete"
	case MarkAllRead:
		return "mark-all-read"
	case ToggleTheme:
		return "toggle-theme"
	default:
		return "unknown"
	}
}

// Request is one action matched for a click.
type Request struct {
	TargetID             string
	Kind                 Kind
	ConfirmationRequired bool

	marker string
}

// Poster issues authenticated POSTs. A *dashboard.StatusError marks an
// HTTP-level failure; any other error is a transport failure.
type Poster interface {
	Post(ctx context.Context, path string) error
}

// Confirmer answers a yes/no prompt synchronously.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Answer returns a Confirmer that always gives the same answer.
func Answer(yes bool) Confirmer {
	return ConfirmFunc(func(string) bool { return yes })
}

// Recorder keeps diagnostics that are not shown to the user.
type Recorder interface {
	RecordDiagnostic(ctx context.Context, source, detail string) error
}

type route struct {
	kind    Kind
	confirm bool
	handle  func(d *Dispatcher, ev *dom.Event, req Request) tea.Cmd
}

// Dispatcher is the single click listener for a document. Routing is by
// marker attribute on the target or any ancestor, so rows added by a
// rebuild need no registration.
type Dispatcher struct {
	ctx      context.Context
	doc      *dom.Document
	poster   Poster
	notifier toast.Notifier
	confirm  Confirmer
	recorder Recorder

	routes  map[string]route
	markers []string

	pending int
}

// Config bundles the dispatcher collaborators. Confirm defaults to
// declining and Recorder may be nil.
type Config struct {
	Context  context.Context
	Document *dom.Document
	Poster   Poster
	Notifier toast.Notifier
	Confirm  Confirmer
	Recorder Recorder
}

// New creates a dispatcher with the standard routes.
func New(cfg Config) *Dispatcher {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	confirm := cfg.Confirm
	if confirm == nil {
		confirm = Answer(false)
	}

	d := &Dispatcher{
		ctx:      ctx,
		doc:      cfg.Document,
		poster:   cfg.Poster,
		notifier: cfg.Notifier,
		confirm:  confirm,
		recorder: cfg.Recorder,
		routes: map[string]route{
			MarkerComplete:    {kind: Complete, handle: (*Dispatcher).complete},
			MarkerDelete:      {kind: Delete, confirm: true, handle: (*Dispatcher).delete},
			MarkerMarkAllRead: {kind: MarkAllRead, handle: (*Dispatcher).markAllRead},
			MarkerToggleTheme: {kind: ToggleTheme, handle: (*Dispatcher).toggleTheme},
		},
		// Every marker is checked on every click, in this order.
		markers: []string{MarkerComplete, MarkerDelete, MarkerMarkAllRead, MarkerToggleTheme},
	}
	return d
}

// SetDocument swaps the document after a rebuild.
func (d *Dispatcher) SetDocument(doc *dom.Document) { d.doc = doc }

// Document returns the current document.
func (d *Dispatcher) Document() *dom.Document { return d.doc }

// SetConfirmer replaces the confirmation source.
func (d *Dispatcher) SetConfirmer(c Confirmer) {
	if c != nil {
		d.confirm = c
	}
}

// Pending returns how many requests are awaiting an outcome.
func (d *Dispatcher) Pending() int { return d.pending }

// Match returns the actions a click on ev's target selects, in routing
// order. A click may match several.
func (d *Dispatcher) Match(ev *dom.Event) []Request {
	if ev == nil || ev.Target == nil {
		return nil
	}
	var reqs []Request
	for _, marker := range d.markers {
		el := ev.Target.Closest(marker)
		if el == nil {
			continue
		}
		r := d.routes[marker]
		id, _ := el.Attr(marker)
		reqs = append(reqs, Request{
			TargetID:             id,
			Kind:                 r.kind,
			ConfirmationRequired: r.confirm,
			marker:               marker,
		})
	}
	return reqs
}

// Dispatch runs every matching handler for ev. Handlers may call
// ev.PreventDefault; the caller performs the default action afterwards
// if it was not prevented.
func (d *Dispatcher) Dispatch(ev *dom.Event) tea.Cmd {
	var cmds []tea.Cmd
	for _, req := range d.Match(ev) {
		cmds = append(cmds, d.routes[req.marker].handle(d, ev, req))
	}
	return tea.Batch(cmds...)
}

func (d *Dispatcher) complete(ev *dom.Event, req Request) tea.Cmd {
	ev.PreventDefault()
	if d.poster == nil {
		return nil
	}

	d.pending++
	ctx, poster, id := d.ctx, d.poster, req.TargetID
	return func() tea.Msg {
		err := poster.Post(ctx, dashboard.CompletePath(id))
		return CompletedMsg{TaskID: id, Err: err}
	}
}

// delete gates the enclosing form's submission on confirmation. It never
// submits anything itself.
func (d *Dispatcher) delete(ev *dom.Event, _ Request) tea.Cmd {
	if !d.confirm.Confirm(DeletePrompt) {
		ev.PreventDefault()
	}
	return nil
}

func (d *Dispatcher) markAllRead(ev *dom.Event, _ Request) tea.Cmd {
	ev.PreventDefault()
	if d.poster == nil {
		return nil
	}

	d.pending++
	ctx, poster, rec := d.ctx, d.poster, d.recorder
	return func() tea.Msg {
		err := poster.Post(ctx, dashboard.MarkAllReadPath)
		if err != nil {
			log.Printf("mark all read: %v", err)
			if rec != nil {
				if rerr := rec.RecordDiagnostic(ctx, MarkAllRead.String(), err.Error()); rerr != nil {
					log.Printf("recording diagnostic: %v", rerr)
				}
			}
		}
		return MarkedAllReadMsg{Err: err}
	}
}

func (d *Dispatcher) toggleTheme(_ *dom.Event, _ Request) tea.Cmd {
	if d.doc == nil || d.doc.Body == nil {
		return nil
	}
	dark := d.doc.Body.ToggleClass(theme.DarkClass)
	return func() tea.Msg { return ThemeChangedMsg{Dark: dark} }
}

// Update reports request outcomes. Completion always surfaces a toast;
// mark-all-read failures stay silent.
func (d *Dispatcher) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case CompletedMsg:
		d.settle()
		switch {
		case msg.Err == nil:
			return tea.Batch(d.notifier.Push(MsgCompleted, toast.UseDefault), reload)
		case dashboard.IsStatusError(msg.Err):
			return d.notifier.Push(MsgCompleteFailed, toast.UseDefault)
		default:
			return d.notifier.Push(MsgNetworkError, toast.UseDefault)
		}

	case MarkedAllReadMsg:
		d.settle()
		if msg.Err == nil {
			return reload
		}
	}
	return nil
}

func (d *Dispatcher) settle() {
	if d.pending > 0 {
		d.pending--
	}
}

func reload() tea.Msg { return ReloadMsg{} }
