package tui

import (
	"fmt"
	"strings"

	"taskdeck-cli/internal/nav"

	"github.com/charmbracelet/lipgloss"
)

var tabLabels = map[nav.Route]string{
	nav.Home:     "Home",
	nav.AllTasks: "All Tasks",
	nav.MyTasks:  "My Tasks",
	nav.Profile:  "Profile",
}

func (m appModel) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}

	header := m.viewHeader(w)
	footer := m.viewFooter(w)
	bodyH := h - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 1 {
		bodyH = 1
	}
	innerW := w - 2

	var body string
	route := m.stack.Top().Route
	switch route {
	case nav.Splash:
		body = lipgloss.Place(innerW, bodyH, lipgloss.Center, lipgloss.Center, styleTitle().Render("taskdeck")+"\n"+m.spinner.View())
	case nav.Login:
		body = lipgloss.Place(innerW, bodyH, lipgloss.Center, lipgloss.Center, m.viewLogin())
	case nav.Register:
		body = lipgloss.Place(innerW, bodyH, lipgloss.Center, lipgloss.Center, m.viewRegister())
	case nav.DrawerRoot:
		body = m.viewDrawer(innerW, bodyH)
	case nav.Home:
		body = m.viewHome(innerW, bodyH)
	case nav.AllTasks, nav.MyTasks:
		body = viewTaskTab(route)
	case nav.Profile:
		body = m.viewProfile(innerW)
	case nav.ProjectDetails:
		body = m.viewDetails(innerW, bodyH)
	case nav.CreateProject, nav.CreateTask:
		body = m.viewForm(innerW, bodyH)
	}

	if m.confirm != nil {
		body = lipgloss.Place(innerW, bodyH, lipgloss.Center, lipgloss.Center,
			renderConfirmModal(w, m.confirm.title, m.confirm.body, "Yes", "No", m.confirm.focus))
	}
	body = normalizePane(lipgloss.NewStyle().PaddingLeft(1).Render(body), w, bodyH)

	return header + "\n" + body + "\n" + footer
}

func (m appModel) viewHeader(w int) string {
	title := styleTitle().Render(" taskdeck")
	if cur, ok := m.sel.Current(); ok && m.sess.Valid() {
		title += styleMuted().Render(" / " + cur.Company.Name)
	}
	if !m.atTabRoot() {
		return normalizePane(title, w, 1)
	}

	route := m.stack.Top().Route
	tabs := make([]string, 0, len(nav.Tabs))
	for i, r := range nav.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tabLabels[r])
		tabs = append(tabs, renderButton(label, r == route))
	}
	bar := strings.Join(tabs, " ")
	gap := w - lipgloss.Width(title) - lipgloss.Width(bar) - 1
	if gap < 1 {
		return normalizePane(title+"\n"+bar, w, 2)
	}
	return normalizePane(title+strings.Repeat(" ", gap)+bar, w, 1)
}

func (m appModel) viewFooter(w int) string {
	if m.minibufferText != "" {
		st := styleSuccess()
		if m.minibufferErr {
			st = styleError()
		}
		return normalizePane(" "+st.Render(m.minibufferText), w, 1)
	}
	return normalizePane(styleMuted().Render(" "+m.helpText()), w, 1)
}

func (m appModel) helpText() string {
	if m.confirm != nil {
		return "y: yes  n: no"
	}
	switch m.stack.Top().Route {
	case nav.Login:
		return "tab: next field  enter: submit  ctrl+c: quit"
	case nav.Register:
		return "tab: next field  enter: submit  esc: back"
	case nav.DrawerRoot:
		return "enter: open company  r: reload  esc: close  1-4: tabs  q: quit"
	case nav.Home:
		if m.home != nil && m.home.searching {
			return "type to filter  enter/esc: done"
		}
		return "enter: open  /: search  n: new project  r: reload  c: companies  1-4: tabs  q: quit"
	case nav.ProjectDetails:
		return "j/k: move  n: new task  d: delete  m: members  r: reload  esc: back"
	case nav.CreateProject, nav.CreateTask:
		if m.form != nil && m.form.picker.IsOpen() {
			return "type to search  enter: toggle  esc: done"
		}
		return "tab: next field  enter: choose  ctrl+s: save  esc: cancel"
	case nav.Profile:
		return "L: log out  r: reload  c: companies  1-4: tabs  q: quit"
	}
	return "c: companies  1-4: tabs  q: quit"
}
