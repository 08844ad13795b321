package tui

import (
	"context"
	"time"

	"taskdeck-cli/internal/events"
	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/mutate"
	"taskdeck-cli/internal/nav"
	"taskdeck-cli/internal/selection"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type appModel struct {
	opts Options
	log  zerolog.Logger

	width  int
	height int

	baseCtx context.Context
	cancel  context.CancelFunc

	sess    model.Session
	backend Backend
	svc     *mutate.Service
	bus     *events.Bus
	inval   *invalidationQueue
	unsubs  []func()

	stack    *nav.Stack
	focusLog *[]focusEvent

	sel *selection.Context

	spinner spinner.Model

	// Screen state. A nil pointer means the screen has no live instance.
	login    *loginForm
	register *registerForm
	drawer   *drawerState
	home     *homeState
	details  *detailsState
	form     *formState
	profile  *profileState
	confirm  *confirmState

	minibufferText string
	minibufferErr  bool
}

func newAppModel(opts Options) appModel {
	log := opts.Log.With().Str("component", "tui").Logger()
	ctx, cancel := context.WithCancel(context.Background())

	m := appModel{
		opts:     opts,
		log:      log,
		baseCtx:  ctx,
		cancel:   cancel,
		bus:      events.NewBus(),
		inval:    &invalidationQueue{},
		focusLog: &[]focusEvent{},
		sel:      selection.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	for _, kind := range []events.Kind{events.ProjectTasksInvalidated, events.CompanyProjectsInvalidated} {
		m.unsubs = append(m.unsubs, m.bus.Subscribe(kind, m.inval.push))
	}
	m.unsubs = append(m.unsubs, m.sel.Subscribe(func(sc model.SelectedCompany) {
		log.Debug().Str("companyId", sc.Company.ID).Int64("token", sc.Token).Msg("company selected")
	}))

	focusLog := m.focusLog
	m.stack = nav.NewStack(nav.Entry{Route: nav.Splash}, func(e nav.Entry, focused bool) {
		*focusLog = append(*focusLog, focusEvent{entry: e, focused: focused})
	})
	m.connect(model.Session{})
	return m
}

func (m appModel) Init() tea.Cmd {
	sessions := m.opts.Sessions
	ctx := m.baseCtx
	return func() tea.Msg {
		route, sess := nav.LandingRoute(ctx, sessions)
		return sessionLoadedMsg{route: route, sess: sess}
	}
}

// connect swaps the backend client for one carrying sess and starts fresh
// per-session screen state.
func (m *appModel) connect(sess model.Session) {
	m.sess = sess
	m.backend = m.opts.Connect(sess.Token)
	m.svc = mutate.New(m.backend, m.opts.Sessions, m.bus, m.opts.Log)
	m.drawer = newDrawerState(m.opts.RefreshMaxAge)
	m.home = newHomeState(m.opts.RefreshMaxAge)
}

// endSession drops everything tied to the logged-in user.
func (m *appModel) endSession() {
	m.sel.Reset()
	m.teardownScreens()
	m.connect(model.Session{})
}

func (m *appModel) teardownScreens() {
	if m.drawer != nil {
		m.drawer.ctrl.Teardown()
	}
	if m.home != nil {
		m.home.ctrl.Teardown()
	}
	m.closeDetails()
	m.closeForm()
	m.profile = nil
	m.confirm = nil
}

func (m *appModel) closeDetails() {
	if m.details != nil {
		m.details.ctrl.Teardown()
		m.details = nil
	}
}

func (m *appModel) closeForm() {
	if m.form != nil {
		m.form.picker.Teardown()
		m.form = nil
	}
}

func (m *appModel) shutdown() {
	for _, u := range m.unsubs {
		u()
	}
	m.unsubs = nil
	m.teardownScreens()
	m.cancel()
}

// request derives the context for one backend call.
func (m appModel) request() (context.Context, context.CancelFunc) {
	if m.opts.RequestTimeout > 0 {
		return context.WithTimeout(m.baseCtx, m.opts.RequestTimeout)
	}
	return context.WithCancel(m.baseCtx)
}

// drainFocus applies recorded stack notifications in order.
func (m *appModel) drainFocus() tea.Cmd {
	var cmds []tea.Cmd
	for len(*m.focusLog) > 0 {
		ev := (*m.focusLog)[0]
		*m.focusLog = (*m.focusLog)[1:]
		if ev.focused {
			cmds = append(cmds, m.onFocus(ev.entry))
		} else {
			m.onBlur(ev.entry)
		}
	}
	return tea.Batch(cmds...)
}

func (m *appModel) onFocus(e nav.Entry) tea.Cmd {
	switch e.Route {
	case nav.Login:
		if m.login == nil {
			m.login = newLoginForm(m.opts.LastEmail)
		}
		return m.login.focusField()
	case nav.Register:
		m.register = newRegisterForm()
		return m.register.focusField()
	case nav.DrawerRoot:
		return m.focusDrawer()
	case nav.Home:
		return m.focusHome(e.Params)
	case nav.ProjectDetails:
		return m.focusDetails(e.Params)
	case nav.Profile:
		return m.focusProfile()
	case nav.CreateProject, nav.CreateTask:
		if m.form != nil {
			return m.form.focusField()
		}
	}
	return nil
}

func (m *appModel) onBlur(e nav.Entry) {
	switch e.Route {
	case nav.DrawerRoot:
		if m.drawer != nil {
			m.drawer.ctrl.Blur()
		}
	case nav.Home:
		if m.home != nil {
			m.home.ctrl.Blur()
			m.home.blurSearch()
		}
	case nav.ProjectDetails:
		if m.details != nil {
			m.details.ctrl.Blur()
		}
	}
}

// applyInvalidations marks affected lists stale and refetches the ones on screen.
func (m *appModel) applyInvalidations() tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range m.inval.drain() {
		switch ev.Kind {
		case events.CompanyProjectsInvalidated:
			if m.home == nil || !scopeMatches(ev.Scope, m.home.ctrl.Key()) {
				continue
			}
			if m.home.ctrl.Invalidate() {
				if t, ok := m.home.ctrl.Refetch(); ok {
					cmds = append(cmds, m.fetchProjectsCmd(m.home.ctrl, t))
				}
			}
		case events.ProjectTasksInvalidated:
			if m.details == nil || !scopeMatches(ev.Scope, m.details.ctrl.Key()) {
				continue
			}
			if m.details.ctrl.Invalidate() {
				if t, ok := m.details.ctrl.Refetch(); ok {
					cmds = append(cmds, m.fetchTasksCmd(m.details.ctrl, t))
				}
			}
		}
	}
	return tea.Batch(cmds...)
}

func scopeMatches(scope, key string) bool {
	return scope == "" || scope == key
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferErr = false
}

func (m *appModel) showError(text string) {
	m.minibufferText = text
	m.minibufferErr = true
}

func (m appModel) busy() bool {
	switch {
	case m.login != nil && m.login.busy:
		return true
	case m.form != nil && (m.form.busy || m.form.picker.Loading()):
		return true
	case m.details != nil && m.details.deleting != "":
		return true
	case m.profile != nil && m.profile.loading:
		return true
	}
	return false
}

// newInput returns a single-line input with a steady cursor.
func newInput(placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.Width = width
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func newTextarea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(4)
	ta.Cursor.SetMode(cursor.CursorStatic)
	return ta
}

func sinceMillis(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
