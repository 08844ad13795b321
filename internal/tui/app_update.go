package tui

import (
	"taskdeck-cli/internal/nav"
	"taskdeck-cli/internal/refresh"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.spinning() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case sessionLoadedMsg:
		if msg.route == nav.DrawerRoot {
			m.connect(msg.sess)
		}
		m.stack.Reset(msg.route, nav.Params{})

	case loginDoneMsg:
		m.applyLogin(msg)
	case logoutDoneMsg:
		m.applyLogout(msg)
	case companiesLoadedMsg:
		m.applyCompanies(msg)
	case projectsLoadedMsg:
		m.applyProjects(msg)
	case tasksLoadedMsg:
		m.applyTasks(msg)
	case rosterLoadedMsg:
		m.applyRoster(msg)
	case profileLoadedMsg:
		m.applyProfile(msg)
	case createProjectDoneMsg:
		m.applyCreateProject(msg)
	case createTaskDoneMsg:
		m.applyCreateTask(msg)
	case deleteTaskDoneMsg:
		m.applyDeleteTask(msg)

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}

	// Invalidations first: a screen regaining focus below then sees its list as stale.
	cmds = append(cmds, m.applyInvalidations(), m.drainFocus())
	return m, tea.Batch(cmds...)
}

// spinning reports whether anything on screen is waiting for the backend.
func (m appModel) spinning() bool {
	if m.busy() {
		return true
	}
	switch {
	case m.drawer != nil && m.drawer.ctrl.State() == refresh.Fetching:
		return true
	case m.home != nil && m.home.ctrl.State() == refresh.Fetching:
		return true
	case m.details != nil && m.details.ctrl.State() == refresh.Fetching:
		return true
	}
	return false
}

// atTabRoot reports whether the drawer or one of the tabs is the only screen.
func (m appModel) atTabRoot() bool {
	if m.stack.Depth() != 1 {
		return false
	}
	route := m.stack.Top().Route
	if route == nav.DrawerRoot {
		return true
	}
	for _, r := range nav.Tabs {
		if r == route {
			return true
		}
	}
	return false
}

// typing reports whether keys go to a text field.
func (m appModel) typing() bool {
	switch m.stack.Top().Route {
	case nav.Login, nav.Register, nav.CreateProject, nav.CreateTask:
		return true
	case nav.Home:
		return m.home != nil && m.home.searching
	}
	return false
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return nil, true
	}
	m.minibufferText = ""

	if m.confirm != nil {
		return m.updateConfirm(msg), false
	}

	route := m.stack.Top().Route
	if m.atTabRoot() && !m.typing() {
		switch msg.String() {
		case "q":
			return nil, true
		case "1", "2", "3", "4":
			tab := nav.Tabs[int(msg.String()[0]-'1')]
			if tab != route {
				m.stack.Replace(tab, nav.Params{})
			}
			return nil, false
		case "c":
			if route != nav.DrawerRoot {
				m.stack.Replace(nav.DrawerRoot, nav.Params{})
			}
			return nil, false
		}
	}

	switch route {
	case nav.Splash:
		return nil, msg.String() == "q"
	case nav.Login:
		return m.updateLogin(msg), false
	case nav.Register:
		return m.updateRegister(msg), false
	case nav.DrawerRoot:
		return m.updateDrawer(msg), false
	case nav.Home:
		return m.updateHome(msg), false
	case nav.ProjectDetails:
		return m.updateDetails(msg), false
	case nav.CreateProject, nav.CreateTask:
		return m.updateForm(msg), false
	case nav.Profile:
		return m.updateProfile(msg), false
	}
	return nil, false
}

func (m *appModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	c := m.confirm
	accept := func() tea.Cmd {
		m.confirm = nil
		if c.onConfirm == nil {
			return nil
		}
		return c.onConfirm(m)
	}
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if c.focus == confirmFocusConfirm {
			c.focus = confirmFocusCancel
		} else {
			c.focus = confirmFocusConfirm
		}
	case "y":
		return accept()
	case "n", "esc", "ctrl+g":
		m.confirm = nil
	case "enter":
		if c.focus == confirmFocusConfirm {
			return accept()
		}
		m.confirm = nil
	}
	return nil
}
