package tui

import (
	"fmt"
	"strings"
	"time"

	"taskdeck-cli/internal/avatar"
	"taskdeck-cli/internal/mutate"
	"taskdeck-cli/internal/nav"
	"taskdeck-cli/internal/picker"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formField int

const (
	formFieldName formField = iota
	formFieldDescription
	formFieldETA
	formFieldMembers
	formFieldSubmit
)

// formState backs both creation screens. The ETA field only exists for tasks.
type formState struct {
	route     nav.Route
	companyID string
	projectID string

	name        textinput.Model
	description textarea.Model
	eta         etaEditor

	picker       *picker.Picker
	pickerSearch textinput.Model
	pickerIndex  int

	focus formField
	busy  bool
	err   string
}

func (m *appModel) openForm(route nav.Route, p nav.Params) {
	m.closeForm()
	f := &formState{
		route:        route,
		companyID:    p.CompanyID,
		projectID:    p.ProjectID,
		name:         newInput("Name", 40),
		description:  newTextarea("Description"),
		eta:          newETAEditor(time.Now()),
		picker:       picker.New(),
		pickerSearch: newInput("Search members", 30),
	}
	if route == nav.CreateTask {
		f.name.Placeholder = "Task name"
	} else {
		f.name.Placeholder = "Project name"
	}
	m.form = f
	m.stack.Push(route, p)
}

func (f *formState) fields() []formField {
	if f.route == nav.CreateTask {
		return []formField{formFieldName, formFieldDescription, formFieldETA, formFieldMembers, formFieldSubmit}
	}
	return []formField{formFieldName, formFieldDescription, formFieldMembers, formFieldSubmit}
}

func (f *formState) moveFocus(delta int) tea.Cmd {
	fields := f.fields()
	at := 0
	for i, ff := range fields {
		if ff == f.focus {
			at = i
		}
	}
	at = (at + delta + len(fields)) % len(fields)
	f.focus = fields[at]
	return f.focusField()
}

func (f *formState) focusField() tea.Cmd {
	f.name.Blur()
	f.description.Blur()
	f.eta.Blur()
	switch f.focus {
	case formFieldName:
		return f.name.Focus()
	case formFieldDescription:
		return f.description.Focus()
	case formFieldETA:
		return f.eta.Focus()
	}
	return nil
}

func (m *appModel) openPicker() tea.Cmd {
	f := m.form
	f.pickerIndex = 0
	f.name.Blur()
	f.description.Blur()
	f.eta.Blur()
	cmd := f.pickerSearch.Focus()
	if f.picker.Open() {
		return tea.Batch(cmd, m.fetchRosterCmd(f.picker))
	}
	return cmd
}

func (m *appModel) applyRoster(msg rosterLoadedMsg) {
	errMsg := ""
	if !msg.res.OK {
		errMsg = msg.res.ErrorMessage
	}
	if !msg.picker.Finish(msg.gen, msg.res.Items, errMsg) {
		return
	}
	if m.form != nil && m.form.picker == msg.picker {
		m.form.clampPickerIndex()
	}
}

func (f *formState) clampPickerIndex() {
	n := len(f.picker.Visible())
	if f.pickerIndex >= n {
		f.pickerIndex = n - 1
	}
	if f.pickerIndex < 0 {
		f.pickerIndex = 0
	}
}

func (m *appModel) updatePicker(msg tea.KeyMsg) tea.Cmd {
	f := m.form
	p := f.picker
	switch msg.String() {
	case "esc":
		p.Close()
		f.pickerSearch.Blur()
		return f.focusField()
	case "up", "ctrl+p":
		if f.pickerIndex > 0 {
			f.pickerIndex--
		}
		return nil
	case "down", "ctrl+n":
		if f.pickerIndex < len(p.Visible())-1 {
			f.pickerIndex++
		}
		return nil
	case "enter":
		visible := p.Visible()
		if f.pickerIndex < len(visible) {
			p.Toggle(visible[f.pickerIndex].ID)
		}
		return nil
	case "ctrl+r":
		if p.Retry() || p.Refresh() {
			return m.fetchRosterCmd(p)
		}
		return nil
	}
	var cmd tea.Cmd
	f.pickerSearch, cmd = f.pickerSearch.Update(msg)
	p.Search(f.pickerSearch.Value())
	f.clampPickerIndex()
	return cmd
}

func (m *appModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	f := m.form
	if f == nil {
		return nil
	}
	if f.busy {
		return nil
	}
	if f.picker.IsOpen() {
		return m.updatePicker(msg)
	}
	switch msg.String() {
	case "esc":
		m.stack.Pop()
		m.closeForm()
		return nil
	case "tab":
		return f.moveFocus(1)
	case "shift+tab":
		return f.moveFocus(-1)
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		switch f.focus {
		case formFieldMembers:
			return m.openPicker()
		case formFieldSubmit:
			return m.submitForm()
		case formFieldName:
			return f.moveFocus(1)
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case formFieldName:
		f.name, cmd = f.name.Update(msg)
	case formFieldDescription:
		f.description, cmd = f.description.Update(msg)
	case formFieldETA:
		cmd = f.eta.Update(msg)
	}
	return cmd
}

func (m *appModel) submitForm() tea.Cmd {
	f := m.form
	f.err = ""
	switch f.route {
	case nav.CreateProject:
		in := mutate.CreateProjectInput{
			Name:        f.name.Value(),
			Description: f.description.Value(),
			CompanyID:   f.companyID,
			Members:     f.picker.Selected(),
			UserID:      m.sess.UserID,
		}
		if err := in.Validate(); err != nil {
			f.err = err.Error()
			return nil
		}
		f.busy = true
		return tea.Batch(m.spinner.Tick, m.createProjectCmd(in))
	case nav.CreateTask:
		in := mutate.CreateTaskInput{
			Title:       f.name.Value(),
			Description: f.description.Value(),
			ProjectID:   f.projectID,
			Members:     f.picker.Selected(),
			ETA:         f.eta.Value(),
		}
		if err := in.Validate(); err != nil {
			f.err = err.Error()
			return nil
		}
		f.busy = true
		return tea.Batch(m.spinner.Tick, m.createTaskCmd(in))
	}
	return nil
}

func (m *appModel) applyCreateProject(msg createProjectDoneMsg) {
	if m.form == nil {
		return
	}
	m.form.busy = false
	if msg.err != nil {
		m.form.err = msg.err.Error()
		return
	}
	m.stack.Pop()
	m.closeForm()
	m.showMinibuffer(fmt.Sprintf("Project %q created", msg.project.ProjectName))
}

func (m *appModel) applyCreateTask(msg createTaskDoneMsg) {
	if m.form == nil {
		return
	}
	m.form.busy = false
	if msg.err != nil {
		m.form.err = msg.err.Error()
		return
	}
	m.stack.Pop()
	m.closeForm()
	text := "Task created"
	if msg.res.Note != "" {
		text += " (" + msg.res.Note + ")"
	}
	m.showMinibuffer(text)
}

func (m appModel) viewForm(w, h int) string {
	f := m.form
	if f == nil {
		return ""
	}
	bodyW := w
	if bodyW > 60 {
		bodyW = 60
	}
	title := "New project"
	if f.route == nav.CreateTask {
		title = "New task"
	}
	lines := []string{styleTitle().Render(title), ""}

	lines = append(lines, fieldLabel("Name", f.focus == formFieldName), renderInputLine(bodyW, f.name.View()))
	f.description.SetWidth(bodyW)
	lines = append(lines, fieldLabel("Description", f.focus == formFieldDescription), f.description.View())
	if f.route == nav.CreateTask {
		lines = append(lines, fieldLabel("ETA", f.focus == formFieldETA), f.eta.View())
	}

	selected := f.picker.Selected()
	names := make([]string, 0, len(selected))
	for _, u := range selected {
		names = append(names, u.Name)
	}
	membersLabel := "Members"
	if f.route == nav.CreateTask {
		membersLabel = "Assignee"
	}
	summary := styleMuted().Render("none")
	if len(names) > 0 {
		summary = strings.Join(names, ", ")
	}
	lines = append(lines,
		fieldLabel(membersLabel, f.focus == formFieldMembers),
		renderButton("Choose...", f.focus == formFieldMembers)+" "+truncateToWidth(summary, bodyW-12),
	)
	if f.route == nav.CreateTask && len(selected) > 1 {
		lines = append(lines, styleMuted().Render(mutate.NoteFirstAssigneeOnly))
	}

	submit := "Create"
	if f.busy {
		submit = m.spinner.View() + " Saving"
	}
	lines = append(lines, "", renderButton(submit, f.focus == formFieldSubmit))
	if f.err != "" {
		lines = append(lines, "", styleError().Render(f.err))
	}
	form := strings.Join(lines, "\n")

	if f.picker.IsOpen() {
		panel := m.viewPicker(w-bodyW-2, h)
		return lipgloss.JoinHorizontal(lipgloss.Top, normalizePane(form, bodyW+2, 0), panel)
	}
	return form
}

// memberPalette colors picker avatars: task members and project members use
// separate palettes.
func (f *formState) memberPalette() avatar.Palette {
	if f.route == nav.CreateTask {
		return avatar.TaskPalette
	}
	return avatar.ProjectPalette
}

func (m appModel) viewPicker(w, h int) string {
	f := m.form
	p := f.picker
	if w < 24 {
		w = 24
	}
	lines := []string{
		styleTitle().Render("Members") + styleMuted().Render(fmt.Sprintf("  %d of %d selected", len(p.SelectedIDs()), p.Candidates())),
		renderInputLine(w, f.pickerSearch.View()),
	}
	switch p.State() {
	case picker.Loading, picker.NotLoaded:
		lines = append(lines, m.spinner.View()+" Loading users...")
	case picker.Failed:
		lines = append(lines, styleError().Render(p.Err()), styleMuted().Render("ctrl+r: retry"))
	default:
		visible := p.Visible()
		if len(visible) == 0 {
			lines = append(lines, styleMuted().Render("No users found"))
		}
		for i, u := range visible {
			mark := glyphUnchecked()
			if p.IsSelected(u.ID) {
				mark = glyphCheck()
			}
			row := fitLine(" "+mark+" "+renderMemberRow(u, f.memberPalette(), w-6), w)
			if i == f.pickerIndex {
				row = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Render(row)
			}
			lines = append(lines, row)
		}
	}
	lines = append(lines, "", styleMuted().Render("enter: toggle  ctrl+r: refresh  esc: done"))
	return normalizePane(strings.Join(lines, "\n"), w, h)
}

