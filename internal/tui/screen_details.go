package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskdeck-cli/internal/avatar"
	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/nav"
	"taskdeck-cli/internal/refresh"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type detailsState struct {
	project model.Project
	ctrl    *refresh.Controller[model.Task]

	index       int
	membersOpen bool
	// deleting is the id of the task being deleted, if any.
	deleting string
}

func newDetailsState(p model.Project, maxAge time.Duration) *detailsState {
	return &detailsState{
		project: p,
		ctrl:    refresh.New[model.Task](refresh.Options{MaxAge: maxAge}),
	}
}

func (d *detailsState) clampIndex() {
	n := len(d.ctrl.Items())
	if d.index >= n {
		d.index = n - 1
	}
	if d.index < 0 {
		d.index = 0
	}
}

func (d *detailsState) selectedTask() (model.Task, bool) {
	items := d.ctrl.Items()
	if d.index < 0 || d.index >= len(items) {
		return model.Task{}, false
	}
	return items[d.index], true
}

// focusDetails binds the screen to the project in params. A different project
// replaces the screen instance.
func (m *appModel) focusDetails(p nav.Params) tea.Cmd {
	project := p.Project
	if project == nil {
		cur, ok := m.sel.CurrentProject()
		if !ok {
			return nil
		}
		project = &cur
	}
	if m.details == nil || m.details.project.ID != project.ID {
		m.closeDetails()
		m.details = newDetailsState(*project, m.opts.RefreshMaxAge)
	}
	t, ok := m.details.ctrl.Focus(m.details.project.ID)
	if !ok {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.fetchTasksCmd(m.details.ctrl, t))
}

func (m *appModel) applyTasks(msg tasksLoadedMsg) {
	var err error
	if !msg.res.OK {
		err = errors.New(msg.res.ErrorMessage)
	}
	if !msg.ctrl.Resolve(msg.ticket, msg.res.Items, err) {
		return
	}
	if m.details != nil && m.details.ctrl == msg.ctrl {
		m.details.clampIndex()
	}
}

func (m *appModel) applyDeleteTask(msg deleteTaskDoneMsg) {
	if m.details != nil && m.details.deleting == msg.taskID {
		m.details.deleting = ""
	}
	if msg.err != nil {
		m.showError(msg.err.Error())
		return
	}
	// Drop the row now; the invalidation refetch confirms it.
	if d := m.details; d != nil {
		kept := make([]model.Task, 0, len(d.ctrl.Items()))
		for _, t := range d.ctrl.Items() {
			if t.ID != msg.taskID {
				kept = append(kept, t)
			}
		}
		d.ctrl.Replace(kept)
		d.clampIndex()
	}
	m.showMinibuffer("Task deleted successfully")
}

func (m *appModel) updateDetails(msg tea.KeyMsg) tea.Cmd {
	d := m.details
	if d == nil {
		if msg.String() == "esc" {
			m.stack.Pop()
		}
		return nil
	}
	switch msg.String() {
	case "esc":
		m.stack.Pop()
		m.closeDetails()
		return nil
	case "up", "k", "ctrl+p":
		if d.index > 0 {
			d.index--
		}
	case "down", "j", "ctrl+n":
		if d.index < len(d.ctrl.Items())-1 {
			d.index++
		}
	case "m":
		d.membersOpen = !d.membersOpen
	case "r":
		if t, ok := d.ctrl.Refetch(); ok {
			return m.fetchTasksCmd(d.ctrl, t)
		}
	case "n", "+":
		m.openForm(nav.CreateTask, nav.Params{ProjectID: d.project.ID})
	case "d", "delete":
		task, ok := d.selectedTask()
		if !ok || d.deleting != "" {
			return nil
		}
		projectID := d.project.ID
		m.confirm = &confirmState{
			title: "Delete task",
			body:  fmt.Sprintf("Delete %q? This cannot be undone.", task.Title),
			focus: confirmFocusCancel,
			onConfirm: func(m *appModel) tea.Cmd {
				if m.details == nil {
					return nil
				}
				m.details.deleting = task.ID
				return tea.Batch(m.spinner.Tick, m.deleteTaskCmd(projectID, task.ID))
			},
		}
	}
	return nil
}

func (m appModel) viewDetails(w, h int) string {
	d := m.details
	if d == nil {
		return styleMuted().Render("No Project Selected")
	}
	p := d.project

	var b strings.Builder
	b.WriteString(styleTitle().Render(p.ProjectName))
	b.WriteString(styleMuted().Render(" " + glyphBullet() + " created " + fmtDate(p.CreatedAt)))
	b.WriteString("\n")
	if desc := renderMarkdown(p.ProjectDescription, w); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n")
	}

	twisty := glyphTwistyCollapsed()
	if d.membersOpen {
		twisty = glyphTwistyExpanded()
	}
	b.WriteString(fmt.Sprintf("%s Team Members (%d)\n", twisty, len(p.Members)))
	if d.membersOpen {
		for _, u := range p.Members {
			b.WriteString("  " + renderMemberRow(u, avatar.ProjectPalette, w-2) + "\n")
		}
	}
	b.WriteString(hrule(w) + "\n")

	tasks := d.ctrl.Items()
	switch {
	case d.ctrl.State() == refresh.Fetching && len(tasks) == 0:
		b.WriteString(m.spinner.View() + " Loading tasks...")
	case d.ctrl.State() == refresh.Failed:
		b.WriteString(styleError().Render(d.ctrl.Err().Error()) + "\n" + styleMuted().Render("r: retry"))
	case len(tasks) == 0:
		b.WriteString(styleMuted().Render("No tasks yet (n: new task)"))
	default:
		b.WriteString(m.renderTaskCards(tasks, d, w, h-lipgloss.Height(b.String())))
	}
	return b.String()
}

// renderTaskCards shows the cards that fit, keeping the selected card visible.
func (m appModel) renderTaskCards(tasks []model.Task, d *detailsState, w, h int) string {
	cards := make([]string, len(tasks))
	for i, t := range tasks {
		card := renderTaskCard(t, w, i == d.index)
		if t.ID == d.deleting {
			card = lipgloss.JoinVertical(lipgloss.Left, card, m.spinner.View()+" Deleting...")
		}
		cards[i] = card
	}
	start := 0
	for start < d.index {
		used := 0
		for i := start; i <= d.index; i++ {
			used += lipgloss.Height(cards[i])
		}
		if used <= h {
			break
		}
		start++
	}
	var out []string
	used := 0
	for i := start; i < len(cards); i++ {
		ch := lipgloss.Height(cards[i])
		if used+ch > h && len(out) > 0 {
			break
		}
		out = append(out, cards[i])
		used += ch
	}
	return strings.Join(out, "\n")
}
