package app

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/action"
	"github.com/nhle/focusflow/internal/dashboard"
	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/pomodoro"
	appsync "github.com/nhle/focusflow/internal/sync"
	"github.com/nhle/focusflow/internal/ui/confirm"
	"github.com/nhle/focusflow/tests/testutil"
)

type fakePoller struct {
	started   int
	refreshes int
	stopped   bool
}

func (p *fakePoller) Start() tea.Cmd             { p.started++; return nil }
func (p *fakePoller) Stop()                      { p.stopped = true }
func (p *fakePoller) Refresh() tea.Cmd           { p.refreshes++; return nil }
func (p *fakePoller) WaitForNextResult() tea.Cmd { return nil }
func (p *fakePoller) Status() appsync.SyncStatus { return appsync.SyncStatus{} }

type fakePoster struct {
	paths []string
	err   error
}

func (p *fakePoster) Post(_ context.Context, path string) error {
	p.paths = append(p.paths, path)
	return p.err
}

type submission struct {
	method, action string
}

type fakeForms struct {
	subs []submission
	err  error
}

func (f *fakeForms) SubmitForm(_ context.Context, method, action string, _ url.Values) error {
	f.subs = append(f.subs, submission{method, action})
	return f.err
}

type harness struct {
	m      Model
	poller *fakePoller
	poster *fakePoster
	forms  *fakeForms
}

func newHarness(t *testing.T, cfg *model.AppConfig) *harness {
	t.Helper()
	if cfg == nil {
		var err error
		cfg, err = model.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
	}
	h := &harness{poller: &fakePoller{}, poster: &fakePoster{}, forms: &fakeForms{}}
	h.m = New(Deps{
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.yaml"),
		Poster:     h.poster,
		Forms:      h.forms,
		Poller:     h.poller,
		Store:      testutil.NewTestStore(t),
	})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

// send feeds msg to the model and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// settleWait bounds how long drive waits on a single command. Anything
// slower is a timer (toast lifetime, countdown tick, spinner) and is
// abandoned.
const settleWait = 200 * time.Millisecond

// drive runs cmd and feeds every message it yields back into the model
// until nothing immediate is left.
func (h *harness) drive(cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		h.drive(h.send(msg))
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(settleWait):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func snapshot(msgs ...string) appsync.SnapshotMsg {
	snap := &dashboard.Snapshot{
		Tasks: []model.Task{
			{ID: 42, Title: "write report", Status: model.StatusTodo},
			{ID: 7, Title: "file taxes", Status: model.StatusTodo},
		},
		Unread: []model.Notification{{ID: 1, TaskID: 42, Message: "due soon"}},
	}
	for _, text := range msgs {
		snap.Messages = append(snap.Messages, model.ServerMessage{Text: text})
	}
	return appsync.SnapshotMsg{Snapshot: snap}
}

func toastTexts(m Model) []string {
	var out []string
	for _, t := range m.Toasts() {
		out = append(out, t.Text)
	}
	return out
}

func TestSnapshotDrainsBootstrapOnce(t *testing.T) {
	h := newHarness(t, nil)

	h.send(snapshot("Welcome to Focus Flow!", "Task created."))
	got := toastTexts(h.m)
	if len(got) != 2 || got[0] != "Welcome to Focus Flow!" || got[1] != "Task created." {
		t.Fatalf("toasts = %v", got)
	}

	// Unrelated interaction must not replay the queue.
	h.send(press("j"))
	if n := len(h.m.Toasts()); n != 2 {
		t.Fatalf("expected 2 toasts after interaction, got %d", n)
	}

	// A new load carries its own queue.
	h.send(snapshot("Task deleted."))
	got = toastTexts(h.m)
	if len(got) != 3 || got[2] != "Task deleted." {
		t.Fatalf("toasts = %v", got)
	}
}

func TestCompleteKeyPostsAndReloads(t *testing.T) {
	h := newHarness(t, nil)
	h.send(snapshot())

	h.drive(h.send(press("x")))

	if len(h.poster.paths) != 1 || h.poster.paths[0] != "/tasks/42/complete/" {
		t.Fatalf("posts = %v", h.poster.paths)
	}
	if got := toastTexts(h.m); len(got) != 1 || got[0] != action.MsgCompleted {
		t.Fatalf("toasts = %v", got)
	}
	if h.poller.refreshes != 1 {
		t.Fatalf("expected one reload, got %d", h.poller.refreshes)
	}
	if len(h.forms.subs) != 0 {
		t.Fatalf("complete must not submit a form: %v", h.forms.subs)
	}
}

func TestCompleteFailureDoesNotReload(t *testing.T) {
	h := newHarness(t, nil)
	h.poster.err = &dashboard.StatusError{Method: "POST", Path: "/tasks/42/complete/", Code: 500}
	h.send(snapshot())

	h.drive(h.send(press("x")))

	if got := toastTexts(h.m); len(got) != 1 || got[0] != action.MsgCompleteFailed {
		t.Fatalf("toasts = %v", got)
	}
	if h.poller.refreshes != 0 {
		t.Fatalf("failure must not reload")
	}
}

func TestDeleteDeclined(t *testing.T) {
	h := newHarness(t, nil)
	h.send(snapshot())

	h.send(press("d"))
	if h.m.CurrentView() != ViewConfirm {
		t.Fatalf("expected confirm view, got %v", h.m.CurrentView())
	}

	h.drive(h.send(confirm.AnsweredMsg{Ref: 42, Yes: false}))
	if h.m.CurrentView() != ViewList {
		t.Fatalf("expected list view after answer")
	}
	if len(h.forms.subs) != 0 {
		t.Fatalf("declined delete submitted %v", h.forms.subs)
	}
	if len(h.poster.paths) != 0 {
		t.Fatalf("delete must not post directly: %v", h.poster.paths)
	}
}

func TestDeleteAcceptedSubmitsForm(t *testing.T) {
	h := newHarness(t, nil)
	h.send(snapshot())

	h.send(press("d"))
	h.drive(h.send(confirm.AnsweredMsg{Ref: 42, Yes: true}))

	if len(h.forms.subs) != 1 {
		t.Fatalf("expected one submission, got %v", h.forms.subs)
	}
	if s := h.forms.subs[0]; s.action != "/tasks/42/delete/" || s.method != "post" {
		t.Fatalf("submission = %+v", s)
	}
	if h.poller.refreshes != 1 {
		t.Fatalf("expected reload after the form, got %d", h.poller.refreshes)
	}
}

func TestDeleteSubmissionTransportFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.forms.err = errors.New("connection reset")
	h.send(snapshot())

	h.send(press("d"))
	h.drive(h.send(confirm.AnsweredMsg{Ref: 42, Yes: true}))

	if got := toastTexts(h.m); len(got) != 1 || got[0] != action.MsgNetworkError {
		t.Fatalf("toasts = %v", got)
	}
}

func TestMarkAllReadFailureIsSilent(t *testing.T) {
	h := newHarness(t, nil)
	h.poster.err = errors.New("offline")
	h.send(snapshot())

	h.drive(h.send(press("R")))

	if len(h.poster.paths) != 1 || h.poster.paths[0] != dashboard.MarkAllReadPath {
		t.Fatalf("posts = %v", h.poster.paths)
	}
	if len(h.m.Toasts()) != 0 {
		t.Fatalf("mark all read must not toast: %v", toastTexts(h.m))
	}
	if h.poller.refreshes != 0 {
		t.Fatal("failure must not reload")
	}

	diags, err := h.m.store.GetDiagnostics(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetDiagnostics: %v", err)
	}
	if len(diags) != 1 || diags[0].Source != action.MarkAllRead.String() {
		t.Fatalf("diagnostics = %+v", diags)
	}
}

func TestToggleThemePersists(t *testing.T) {
	h := newHarness(t, nil)
	h.send(snapshot())

	h.drive(h.send(press("T")))
	if !h.m.Dark() || !h.m.Page().Dark() {
		t.Fatal("expected dark palette and body class")
	}

	cfg, err := model.LoadConfig(h.m.configPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Display.Theme != "dark" {
		t.Fatalf("saved theme = %q", cfg.Display.Theme)
	}

	// The body class survives a reload.
	h.send(snapshot())
	if !h.m.Page().Dark() {
		t.Fatal("rebuilt page lost the dark class")
	}
}

func TestToastsDisabled(t *testing.T) {
	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.Toast.Enabled = false
	h := newHarness(t, cfg)

	h.send(snapshot("hello"))
	h.drive(h.send(press("x")))

	if len(h.m.Toasts()) != 0 {
		t.Fatalf("expected no toasts, got %v", toastTexts(h.m))
	}
	if h.poller.refreshes != 1 {
		t.Fatal("reload must still happen without a toast container")
	}
}

func TestTimerKeys(t *testing.T) {
	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.Pomodoro.Minutes = 1
	h := newHarness(t, cfg)

	if h.m.Timer().Display() != "01:00" {
		t.Fatalf("display = %s", h.m.Timer().Display())
	}
	if cmd := h.send(press("s")); cmd == nil || h.m.Timer().State() != pomodoro.Running {
		t.Fatalf("expected running timer, state=%v", h.m.Timer().State())
	}
	if cmd := h.send(press("s")); cmd != nil {
		t.Fatal("second start must not add a tick source")
	}

	h.send(press("p"))
	if h.m.Timer().State() != pomodoro.Paused {
		t.Fatalf("state = %v", h.m.Timer().State())
	}
	h.send(press("0"))
	if h.m.Timer().State() != pomodoro.Idle || h.m.Timer().Display() != "01:00" {
		t.Fatalf("after reset state=%v display=%s", h.m.Timer().State(), h.m.Timer().Display())
	}
}

func TestExpiredSessionIsRecorded(t *testing.T) {
	h := newHarness(t, nil)

	h.drive(h.send(pomodoro.ExpiredMsg{ID: h.m.Timer().ID(), Planned: 25 * time.Minute, At: time.Now()}))

	if h.m.todayPomodoro != 1 {
		t.Fatalf("today's count = %d", h.m.todayPomodoro)
	}
	n, err := h.m.store.CountPomodorosSince(context.Background(), startOfDay(time.Now()))
	if err != nil {
		t.Fatalf("CountPomodorosSince: %v", err)
	}
	if n != 1 {
		t.Fatalf("stored sessions = %d", n)
	}
}

func TestCachedSnapshotYieldsToLive(t *testing.T) {
	h := newHarness(t, nil)

	h.send(snapshot())
	h.send(cachedSnapshotMsg{tasks: []model.Task{{ID: 1, Title: "stale"}}})

	if _, ok := h.m.Page().Row(42); !ok {
		t.Fatal("late cache load replaced the live page")
	}
}

func TestOfflineSnapshotKeepsPage(t *testing.T) {
	h := newHarness(t, nil)
	h.send(snapshot())

	h.send(appsync.SnapshotMsg{Err: errors.New("dial tcp: refused")})
	if !h.m.offline {
		t.Fatal("expected offline flag")
	}
	if _, ok := h.m.Page().Row(42); !ok {
		t.Fatal("offline result dropped the current page")
	}
}

func TestQuitStopsPoller(t *testing.T) {
	h := newHarness(t, nil)
	cmd := h.send(press("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !h.poller.stopped {
		t.Fatal("poller should be stopped")
	}
}
