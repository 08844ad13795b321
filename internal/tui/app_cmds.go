package tui

import (
	"time"

	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/mutate"
	"taskdeck-cli/internal/picker"
	"taskdeck-cli/internal/refresh"

	tea "github.com/charmbracelet/bubbletea"
)

// Commands run on their own goroutines. They only read values captured at creation
// and hand results back as messages.

func (m appModel) fetchCompaniesCmd(ctrl *refresh.Controller[model.Company], t refresh.Ticket) tea.Cmd {
	backend, log := m.backend, m.log
	req := m.request
	return func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		start := time.Now()
		res := backend.ListCompanies(ctx, t.Key)
		log.Debug().Str("userId", t.Key).Bool("ok", res.OK).Int64("ms", sinceMillis(start)).Msg("companies fetched")
		return companiesLoadedMsg{ctrl: ctrl, ticket: t, res: res}
	}
}

func (m appModel) fetchProjectsCmd(ctrl *refresh.Controller[model.Project], t refresh.Ticket) tea.Cmd {
	backend, log := m.backend, m.log
	req := m.request
	return func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		start := time.Now()
		res := backend.ListProjectsForCompany(ctx, t.Key)
		log.Debug().Str("companyId", t.Key).Bool("ok", res.OK).Int64("ms", sinceMillis(start)).Msg("projects fetched")
		return projectsLoadedMsg{ctrl: ctrl, ticket: t, res: res}
	}
}

func (m appModel) fetchTasksCmd(ctrl *refresh.Controller[model.Task], t refresh.Ticket) tea.Cmd {
	backend, log, userID := m.backend, m.log, m.sess.UserID
	req := m.request
	return func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		start := time.Now()
		res := backend.ListTasksForProject(ctx, t.Key, userID)
		log.Debug().Str("projectId", t.Key).Bool("ok", res.OK).Int64("ms", sinceMillis(start)).Msg("tasks fetched")
		return tasksLoadedMsg{ctrl: ctrl, ticket: t, res: res}
	}
}

func (m appModel) fetchRosterCmd(p *picker.Picker) tea.Cmd {
	gen := p.BeginFetch()
	backend := m.backend
	req := m.request
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		return rosterLoadedMsg{picker: p, gen: gen, res: backend.ListUsers(ctx)}
	})
}

func (m appModel) fetchProfileCmd(seq int) tea.Cmd {
	backend, userID := m.backend, m.sess.UserID
	req := m.request
	return func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		return profileLoadedMsg{seq: seq, res: backend.GetUser(ctx, userID)}
	}
}

func (m appModel) loginCmd(email, password string) tea.Cmd {
	svc := m.svc
	req := m.request
	return func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		sess, err := svc.Login(ctx, email, password)
		return loginDoneMsg{email: email, sess: sess, err: err}
	}
}

func (m appModel) logoutCmd() tea.Cmd {
	svc := m.svc
	req := m.request
	return func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		return logoutDoneMsg{err: svc.Logout(ctx)}
	}
}

func (m appModel) createProjectCmd(in mutate.CreateProjectInput) tea.Cmd {
	svc := m.svc
	req := m.request
	return func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		p, err := svc.CreateProject(ctx, in)
		return createProjectDoneMsg{project: p, err: err}
	}
}

func (m appModel) createTaskCmd(in mutate.CreateTaskInput) tea.Cmd {
	svc := m.svc
	req := m.request
	return func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		res, err := svc.CreateTask(ctx, in)
		return createTaskDoneMsg{res: res, err: err}
	}
}

func (m appModel) deleteTaskCmd(projectID, taskID string) tea.Cmd {
	svc := m.svc
	req := m.request
	return func() tea.Msg {
		ctx, cancel := req()
		defer cancel()
		return deleteTaskDoneMsg{taskID: taskID, err: svc.DeleteTask(ctx, projectID, taskID)}
	}
}
