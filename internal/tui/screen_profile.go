package tui

import (
	"strings"

	"taskdeck-cli/internal/avatar"
	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/nav"

	tea "github.com/charmbracelet/bubbletea"
)

type profileState struct {
	seq     int
	loading bool
	user    model.UserRef
	loaded  bool
	err     string
}

func (m *appModel) focusProfile() tea.Cmd {
	if m.profile == nil {
		m.profile = &profileState{}
	}
	p := m.profile
	p.seq++
	p.loading = true
	p.err = ""
	return tea.Batch(m.spinner.Tick, m.fetchProfileCmd(p.seq))
}

func (m *appModel) applyProfile(msg profileLoadedMsg) {
	p := m.profile
	if p == nil || msg.seq != p.seq {
		return
	}
	p.loading = false
	if !msg.res.OK {
		p.err = msg.res.ErrorMessage
		return
	}
	p.user, p.loaded = msg.res.Items, true
}

func (m *appModel) updateProfile(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "L":
		m.confirm = &confirmState{
			title: "Log out",
			body:  "Log out of this device?",
			focus: confirmFocusConfirm,
			onConfirm: func(m *appModel) tea.Cmd {
				return m.logoutCmd()
			},
		}
	case "r":
		return m.focusProfile()
	}
	return nil
}

func (m *appModel) applyLogout(msg logoutDoneMsg) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("clear session")
		m.showError("Logout failed: " + msg.err.Error())
		return
	}
	m.endSession()
	m.stack.Reset(nav.Login, nav.Params{})
}

func (m appModel) viewProfile(w int) string {
	p := m.profile
	lines := []string{styleTitle().Render("Profile"), hrule(w)}
	switch {
	case p == nil:
	case p.loading && !p.loaded:
		lines = append(lines, m.spinner.View()+" Loading profile...")
	case p.err != "":
		lines = append(lines, styleError().Render(p.err), styleMuted().Render("r: retry"))
	case p.loaded:
		u := p.user
		lines = append(lines,
			avatar.ProjectPalette.Badge(u.ID, u.Name)+" "+styleTitle().Render(u.Name),
			"",
			"Email: "+u.Email,
			"Role:  "+u.Role,
		)
	}
	lines = append(lines, "", styleMuted().Render("L: log out"))
	return strings.Join(lines, "\n")
}

// viewTaskTab renders the AllTasks and MyTasks tabs, which have no content yet.
func viewTaskTab(route nav.Route) string {
	title := "All Tasks"
	if route == nav.MyTasks {
		title = "My Tasks"
	}
	return styleTitle().Render(title) + "\n\n" + styleMuted().Render("Nothing here yet. Open a project to see its tasks.")
}
