package app

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/action"
	"github.com/nhle/focusflow/internal/bootstrap"
	"github.com/nhle/focusflow/internal/dashboard"
	"github.com/nhle/focusflow/internal/dom"
	"github.com/nhle/focusflow/internal/keys"
	"github.com/nhle/focusflow/internal/model"
	"github.com/nhle/focusflow/internal/page"
	"github.com/nhle/focusflow/internal/pomodoro"
	"github.com/nhle/focusflow/internal/store"
	appsync "github.com/nhle/focusflow/internal/sync"
	"github.com/nhle/focusflow/internal/theme"
	"github.com/nhle/focusflow/internal/toast"
	"github.com/nhle/focusflow/internal/ui"
	"github.com/nhle/focusflow/internal/ui/command"
	"github.com/nhle/focusflow/internal/ui/confirm"
	"github.com/nhle/focusflow/internal/ui/detail"
	helpview "github.com/nhle/focusflow/internal/ui/help"
	"github.com/nhle/focusflow/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewConfirm
)

// Toast texts for the delete form submission.
const (
	MsgDeleteFailed = "Could not delete task"
)

// Poller is the background refresher the model drives.
type Poller interface {
	Start() tea.Cmd
	Stop()
	Refresh() tea.Cmd
	WaitForNextResult() tea.Cmd
	Status() appsync.SyncStatus
}

// FormSubmitter performs a form's native submission.
type FormSubmitter interface {
	SubmitForm(ctx context.Context, method, action string, values url.Values) error
}

// Deps are the collaborators of the root model. Store may be nil.
type Deps struct {
	Context    context.Context
	Config     *model.AppConfig
	ConfigPath string
	Poster     action.Poster
	Forms      FormSubmitter
	Poller     Poller
	Store      store.Store
}

// Model is the root Bubble Tea model. It owns the document of the current
// dashboard load and routes key presses to it as clicks.
type Model struct {
	ctx          context.Context
	cfg          *model.AppConfig
	configPath   string
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	styles       *theme.Styles

	store  store.Store
	poller Poller
	forms  FormSubmitter

	page       *page.Page
	snapshot   dashboard.Snapshot
	boot       *bootstrap.Queue
	dispatcher *action.Dispatcher
	notifier   toast.Notifier
	timer      pomodoro.Model

	taskList    tasklist.Model
	detail      detail.Model
	helpView    helpview.Model
	commandView command.Model
	confirmView confirm.Model

	spinner       spinner.Model
	ready         bool
	live          bool
	loading       bool
	offline       bool
	newTasks      int
	todayPomodoro int
}

// New creates the root model.
func New(d Deps) Model {
	ctx := d.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := d.Config
	if cfg == nil {
		cfg, _ = model.LoadConfig("")
	}

	dark := cfg.Display.Theme == theme.DarkClass
	styles := theme.New(dark)
	k := keys.DefaultKeyMap()

	p := page.Build(nil, nil, pageOptions(cfg, dark))

	// The container lives across rebuilds so an outcome toast survives
	// the reload it triggers.
	var container *toast.Container
	if p.HasToastContainer() {
		container = toast.NewContainer()
	}
	notifier := toast.New(container,
		toast.WithDuration(time.Duration(cfg.Toast.DurationMs)*time.Millisecond),
		toast.WithGrace(time.Duration(cfg.Toast.GraceMs)*time.Millisecond),
	)

	var rec action.Recorder
	if d.Store != nil {
		rec = d.Store
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:        ctx,
		cfg:        cfg,
		configPath: d.ConfigPath,
		keys:       k,
		styles:     &styles,
		store:      d.Store,
		poller:     d.Poller,
		forms:      d.Forms,
		page:       p,
		dispatcher: action.New(action.Config{
			Context:  ctx,
			Document: p.Doc,
			Poster:   d.Poster,
			Notifier: notifier,
			Recorder: rec,
		}),
		notifier:    notifier,
		timer:       pomodoro.New(p.PomodoroMinutes()),
		spinner:     sp,
		loading:     true,
		layout:      ui.NewLayout(80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
	m.taskList = tasklist.New(m.styles, 80, 22)
	m.detail = detail.New(k, m.styles, 80, 22)
	return m
}

func pageOptions(cfg *model.AppConfig, dark bool) page.Options {
	return page.Options{
		Dark:            dark,
		ToastsEnabled:   cfg.Toast.Enabled,
		PomodoroMinutes: cfg.Pomodoro.Minutes,
	}
}

// Init loads the cached snapshot and starts polling.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadCached(), m.countToday()}
	if m.poller != nil {
		cmds = append(cmds, m.poller.Start())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		return m.updateActiveView(msg)

	case cachedSnapshotMsg:
		// A live load always wins over the cache.
		if !m.live {
			m.rebuild(msg.tasks, msg.unread)
		}
		return m, nil

	case appsync.SnapshotMsg:
		cmd := m.handleSnapshot(msg)
		if m.poller != nil {
			cmd = tea.Batch(cmd, m.poller.WaitForNextResult())
		}
		return m, cmd

	case action.CompletedMsg, action.MarkedAllReadMsg:
		return m, m.dispatcher.Update(msg)

	case action.ReloadMsg:
		return m, m.reload()

	case action.ThemeChangedMsg:
		return m, m.applyTheme(msg.Dark)

	case formSubmittedMsg:
		return m, m.handleFormResult(msg)

	case confirm.AnsweredMsg:
		m.currentView = ViewList
		return m, m.answerDelete(msg)

	case pomodoro.TickMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case pomodoro.ExpiredMsg:
		log.Printf("pomodoro %d finished after %s", msg.ID, msg.Planned)
		return m, m.recordPomodoro(msg)

	case pomodoroCountMsg:
		m.todayPomodoro = msg.count
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(msg)

	case configSavedMsg:
		if msg.err != nil {
			log.Printf("saving config: %v", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var toastCmd tea.Cmd
	m.notifier, toastCmd = m.notifier.Update(msg)

	next, cmd := m.updateActiveView(msg)
	return next, tea.Batch(toastCmd, cmd)
}

// handleKey processes global keys and the list view's action keys. It
// reports false when the key should reach the active view instead.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m.quit(), true
	}

	switch m.currentView {
	case ViewConfirm, ViewCommand:
		if m.currentView == ViewCommand && key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return nil, true
		}
		return nil, false

	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
		}
		return nil, true

	case ViewDetail:
		if key.Matches(msg, m.keys.Help) {
			m.openOverlay(ViewHelp)
			return nil, true
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit(), true

	case key.Matches(msg, m.keys.Help):
		m.openOverlay(ViewHelp)
		return nil, true

	case key.Matches(msg, m.keys.Command):
		m.openOverlay(ViewCommand)
		return m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Refresh):
		return m.reload(), true

	case key.Matches(msg, m.keys.Select):
		t, ok := m.taskList.Selected()
		if !ok {
			return nil, true
		}
		m.detail.SetTask(t, m.snapshot.Unread)
		m.openOverlay(ViewDetail)
		return nil, true

	case key.Matches(msg, m.keys.Complete):
		if row, ok := m.selectedRow(); ok {
			return m.click(row.Complete), true
		}
		return nil, true

	case key.Matches(msg, m.keys.Delete):
		return m.askDelete(), true

	case key.Matches(msg, m.keys.MarkAllRead):
		return m.click(m.page.MarkAllRead), true

	case key.Matches(msg, m.keys.ToggleTheme):
		return m.click(m.page.ThemeToggle), true

	case key.Matches(msg, m.keys.TimerStart):
		return m.timer.Start(), true

	case key.Matches(msg, m.keys.TimerStop):
		m.timer.Stop()
		return nil, true

	case key.Matches(msg, m.keys.TimerReset):
		m.timer.Reset()
		return nil, true
	}

	return nil, false
}

func (m *Model) openOverlay(v ViewState) {
	m.previousView = m.currentView
	m.currentView = v
}

func (m *Model) quit() tea.Cmd {
	if m.poller != nil {
		m.poller.Stop()
	}
	return tea.Quit
}

// click delivers a click on el to the dispatcher and then performs the
// default action unless a handler prevented it.
func (m *Model) click(el *dom.Element) tea.Cmd {
	if el == nil {
		return nil
	}
	ev := dom.NewClick(el)
	cmd := m.dispatcher.Dispatch(ev)
	return tea.Batch(cmd, m.defaultAction(ev))
}

func (m *Model) defaultAction(ev *dom.Event) tea.Cmd {
	form, ok := ev.DefaultAction()
	if !ok || m.forms == nil {
		return nil
	}
	return m.submitForm(form)
}

func (m Model) selectedRow() (page.Row, bool) {
	t, ok := m.taskList.Selected()
	if !ok {
		return page.Row{}, false
	}
	return m.page.Row(t.ID)
}

// askDelete opens the confirmation modal for the focused task. The
// answer is delivered as confirm.AnsweredMsg.
func (m *Model) askDelete() tea.Cmd {
	t, ok := m.taskList.Selected()
	if !ok {
		return nil
	}
	if _, ok := m.page.Row(t.ID); !ok {
		return nil
	}
	m.confirmView = confirm.New(action.DeletePrompt, t.ID, m.layout.ContentWidth()-8)
	m.openOverlay(ViewConfirm)
	return m.confirmView.Init()
}

// answerDelete clicks the task's delete control with the user's answer
// as the confirmation result.
func (m *Model) answerDelete(msg confirm.AnsweredMsg) tea.Cmd {
	row, ok := m.page.Row(msg.Ref)
	if !ok {
		return nil
	}
	m.dispatcher.SetConfirmer(action.Answer(msg.Yes))
	return m.click(row.Delete)
}

// handleSnapshot treats a successful load as a fresh page: new document,
// new bootstrap queue drained once.
func (m *Model) handleSnapshot(msg appsync.SnapshotMsg) tea.Cmd {
	m.loading = false
	if msg.Err != nil {
		m.offline = true
		log.Printf("loading dashboard: %v", msg.Err)
		return nil
	}

	m.offline = false
	m.live = true
	m.newTasks = msg.NewTaskCount
	m.rebuild(msg.Snapshot.Tasks, msg.Snapshot.Unread)

	m.boot = bootstrap.NewQueue(msg.Snapshot.Messages)
	return bootstrap.Drain(m.boot, m.notifier)
}

func (m *Model) rebuild(tasks []model.Task, unread []model.Notification) {
	m.snapshot = dashboard.Snapshot{Tasks: tasks, Unread: unread}
	m.page = page.Build(tasks, unread, pageOptions(m.cfg, m.styles.Dark))
	m.dispatcher.SetDocument(m.page.Doc)
	m.taskList.SetTasks(tasks)

	if m.currentView == ViewDetail {
		if t, ok := m.findTask(m.detail.TaskID()); ok {
			m.detail.SetTask(t, unread)
		} else {
			m.currentView = ViewList
		}
	}
}

func (m Model) findTask(id int64) (model.Task, bool) {
	for _, t := range m.snapshot.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// reload asks the poller for an immediate refetch.
func (m *Model) reload() tea.Cmd {
	if m.poller == nil {
		return nil
	}
	m.loading = true
	return m.poller.Refresh()
}

func (m *Model) applyTheme(dark bool) tea.Cmd {
	*m.styles = theme.New(dark)
	if dark {
		m.cfg.Display.Theme = theme.DarkClass
	} else {
		m.cfg.Display.Theme = "light"
	}
	return m.saveConfig()
}

func (m *Model) handleFormResult(msg formSubmittedMsg) tea.Cmd {
	switch {
	case msg.err == nil:
		return m.reload()
	case dashboard.IsStatusError(msg.err):
		return m.notifier.Push(MsgDeleteFailed, toast.UseDefault)
	default:
		return m.notifier.Push(action.MsgNetworkError, toast.UseDefault)
	}
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(msg command.CommandMsg) tea.Cmd {
	switch msg.Name {
	case command.Start:
		return m.timer.Start()
	case command.Stop:
		m.timer.Stop()
	case command.Reset:
		m.timer.Reset()
	case command.Refresh:
		return m.reload()
	case command.MarkAllRead:
		return m.click(m.page.MarkAllRead)
	case command.Theme:
		return m.click(m.page.ThemeToggle)
	case command.Quit:
		return m.quit()
	default:
		return m.notifier.Push(fmt.Sprintf("Unknown command: %s", msg.Input), toast.UseDefault)
	}
	return nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewConfirm:
		m.confirmView, cmd = m.confirmView.Update(msg)
	}

	return m, cmd
}

// Toasts returns the current display list.
func (m Model) Toasts() []toast.Toast {
	return m.notifier.Container().Toasts()
}

// Timer returns the pomodoro timer.
func (m Model) Timer() pomodoro.Model { return m.timer }

// Page returns the current document.
func (m Model) Page() *page.Page { return m.page }

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState { return m.currentView }

// Dark reports the active palette.
func (m Model) Dark() bool { return m.styles.Dark }
