package tui

import (
	"errors"
	"strings"
	"time"

	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/nav"
	"taskdeck-cli/internal/refresh"
	"taskdeck-cli/internal/selection"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type drawerState struct {
	ctrl *refresh.Controller[model.Company]
	list list.Model
}

func newDrawerState(maxAge time.Duration) *drawerState {
	return &drawerState{
		ctrl: refresh.New[model.Company](refresh.Options{MaxAge: maxAge}),
		list: newList(nil, newCompactItemDelegate(true)),
	}
}

func (d *drawerState) sync() {
	items := make([]list.Item, 0, len(d.ctrl.Items())+1)
	for _, c := range d.ctrl.Items() {
		items = append(items, companyItem{company: c})
	}
	if len(items) > 0 {
		items = append(items, addCompanyItem{})
	}
	d.list.SetItems(items)
}

func (m *appModel) focusDrawer() tea.Cmd {
	if m.drawer == nil {
		return nil
	}
	t, ok := m.drawer.ctrl.Focus(m.sess.UserID)
	if !ok {
		return nil
	}
	m.drawer.sync()
	return tea.Batch(m.spinner.Tick, m.fetchCompaniesCmd(m.drawer.ctrl, t))
}

func (m *appModel) applyCompanies(msg companiesLoadedMsg) {
	var err error
	if !msg.res.OK {
		err = errors.New(msg.res.ErrorMessage)
	}
	if !msg.ctrl.Resolve(msg.ticket, msg.res.Items, err) {
		return
	}
	if m.drawer != nil && m.drawer.ctrl == msg.ctrl {
		m.drawer.sync()
	}
}

func (m *appModel) updateDrawer(msg tea.KeyMsg) tea.Cmd {
	d := m.drawer
	if d == nil {
		return nil
	}
	switch msg.String() {
	case "enter":
		switch it := d.list.SelectedItem().(type) {
		case companyItem:
			sel := m.sel.Select(it.company)
			m.stack.Replace(nav.Home, nav.Params{Selection: &sel})
		case addCompanyItem:
			m.showMinibuffer("Adding companies is not available yet")
		}
		return nil
	case "r":
		if t, ok := d.ctrl.Refetch(); ok {
			return m.fetchCompaniesCmd(d.ctrl, t)
		}
		return nil
	case "esc":
		if cur, ok := m.sel.Current(); ok {
			m.stack.Replace(nav.Home, nav.Params{Selection: &cur})
		}
		return nil
	}
	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return cmd
}

func (m appModel) viewDrawer(w, h int) string {
	d := m.drawer
	lines := []string{styleTitle().Render("Companies"), hrule(w)}
	if d == nil {
		return strings.Join(lines, "\n")
	}
	switch {
	case d.ctrl.State() == refresh.Fetching && len(d.ctrl.Items()) == 0:
		lines = append(lines, m.spinner.View()+" Loading companies...")
	case d.ctrl.State() == refresh.Failed:
		lines = append(lines, styleError().Render(d.ctrl.Err().Error()), styleMuted().Render("r: retry"))
	case len(d.ctrl.Items()) == 0:
		lines = append(lines, styleMuted().Render("No Companies found"))
	default:
		d.list.SetSize(w, h-len(lines))
		lines = append(lines, d.list.View())
	}
	return strings.Join(lines, "\n")
}

type homeState struct {
	ctrl   *refresh.Controller[model.Project]
	cursor selection.Cursor

	company model.SelectedCompany
	has     bool

	search    textinput.Model
	searching bool
	list      list.Model
}

func newHomeState(maxAge time.Duration) *homeState {
	return &homeState{
		ctrl:   refresh.New[model.Project](refresh.Options{MaxAge: maxAge}),
		search: newInput("Search projects", 30),
		list:   newList(nil, newCompactItemDelegate(true)),
	}
}

// filterProjects keeps projects whose name contains term, ignoring case and
// surrounding space.
func filterProjects(in []model.Project, term string) []model.Project {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return in
	}
	out := make([]model.Project, 0, len(in))
	for _, p := range in {
		if strings.Contains(strings.ToLower(p.ProjectName), term) {
			out = append(out, p)
		}
	}
	return out
}

func (h *homeState) sync() {
	visible := filterProjects(h.ctrl.Items(), h.search.Value())
	items := make([]list.Item, 0, len(visible))
	for _, p := range visible {
		items = append(items, projectItem{project: p})
	}
	h.list.SetItems(items)
}

func (h *homeState) blurSearch() {
	h.searching = false
	h.search.Blur()
}

// focusHome applies a newer company selection, if any, then refreshes the list.
func (m *appModel) focusHome(p nav.Params) tea.Cmd {
	h := m.home
	if h == nil {
		return nil
	}
	sel, ok := m.sel.Current()
	if p.Selection != nil {
		sel, ok = *p.Selection, true
	}
	if ok && h.cursor.Consume(sel) {
		h.company, h.has = sel, true
		h.search.SetValue("")
		h.list.ResetSelected()
	}
	if !h.has {
		return nil
	}
	t, fetch := h.ctrl.Focus(h.company.Company.ID)
	h.sync()
	if !fetch {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.fetchProjectsCmd(h.ctrl, t))
}

func (m *appModel) applyProjects(msg projectsLoadedMsg) {
	var err error
	if !msg.res.OK {
		err = errors.New(msg.res.ErrorMessage)
	}
	if !msg.ctrl.Resolve(msg.ticket, msg.res.Items, err) {
		return
	}
	if m.home != nil && m.home.ctrl == msg.ctrl {
		m.home.sync()
	}
}

func (m *appModel) updateHome(msg tea.KeyMsg) tea.Cmd {
	h := m.home
	if h == nil {
		return nil
	}
	if h.searching {
		switch msg.String() {
		case "esc", "enter", "down":
			h.blurSearch()
			return nil
		}
		var cmd tea.Cmd
		h.search, cmd = h.search.Update(msg)
		h.sync()
		return cmd
	}

	switch msg.String() {
	case "/":
		h.searching = true
		return h.search.Focus()
	case "enter":
		it, ok := h.list.SelectedItem().(projectItem)
		if !ok {
			return nil
		}
		p := it.project
		m.sel.SelectProject(p)
		m.stack.Push(nav.ProjectDetails, nav.Params{Project: &p, ProjectID: p.ID})
		return nil
	case "n", "+":
		if !h.has {
			m.showError("Select a company first")
			return nil
		}
		m.openForm(nav.CreateProject, nav.Params{CompanyID: h.company.Company.ID})
		return nil
	case "r":
		if t, ok := h.ctrl.Refetch(); ok {
			return m.fetchProjectsCmd(h.ctrl, t)
		}
		return nil
	case "esc":
		if h.search.Value() != "" {
			h.search.SetValue("")
			h.sync()
		}
		return nil
	}
	var cmd tea.Cmd
	h.list, cmd = h.list.Update(msg)
	return cmd
}

func (m appModel) viewHome(w, hgt int) string {
	h := m.home
	if h == nil || !h.has {
		return styleMuted().Render("Select a company to see its projects (c: companies)")
	}
	lines := []string{
		styleTitle().Render(h.company.Company.Name) + styleMuted().Render("  projects"),
		renderInputLine(w, h.search.View()),
		hrule(w),
	}
	visible := filterProjects(h.ctrl.Items(), h.search.Value())
	switch {
	case h.ctrl.State() == refresh.Fetching && len(h.ctrl.Items()) == 0:
		lines = append(lines, m.spinner.View()+" Loading projects...")
	case h.ctrl.State() == refresh.Failed:
		lines = append(lines, styleError().Render(h.ctrl.Err().Error()), styleMuted().Render("r: retry"))
	case len(visible) == 0:
		lines = append(lines, styleMuted().Render("No projects found"))
	default:
		h.list.SetSize(w, hgt-len(lines))
		lines = append(lines, h.list.View())
	}
	return strings.Join(lines, "\n")
}
