package tui

import (
	"sync"

	"taskdeck-cli/internal/events"
	"taskdeck-cli/internal/gateway"
	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/mutate"
	"taskdeck-cli/internal/nav"
	"taskdeck-cli/internal/picker"
	"taskdeck-cli/internal/refresh"
)

type sessionLoadedMsg struct {
	route nav.Route
	sess  model.Session
}

type loginDoneMsg struct {
	email string
	sess  model.Session
	err   error
}

type logoutDoneMsg struct{ err error }

// List results carry the controller that issued the ticket so a result for a
// screen instance that no longer exists is resolved against (and dropped by) the
// torn-down controller.

type companiesLoadedMsg struct {
	ctrl   *refresh.Controller[model.Company]
	ticket refresh.Ticket
	res    gateway.Result[[]model.Company]
}

type projectsLoadedMsg struct {
	ctrl   *refresh.Controller[model.Project]
	ticket refresh.Ticket
	res    gateway.Result[[]model.Project]
}

type tasksLoadedMsg struct {
	ctrl   *refresh.Controller[model.Task]
	ticket refresh.Ticket
	res    gateway.Result[[]model.Task]
}

type rosterLoadedMsg struct {
	picker *picker.Picker
	gen    uint64
	res    gateway.Result[[]model.UserRef]
}

type profileLoadedMsg struct {
	seq int
	res gateway.Result[model.UserRef]
}

type createProjectDoneMsg struct {
	project model.Project
	err     error
}

type createTaskDoneMsg struct {
	res mutate.CreateTaskResult
	err error
}

type deleteTaskDoneMsg struct {
	taskID string
	err    error
}

// focusEvent is a nav.Stack notification recorded for the next Update to apply.
type focusEvent struct {
	entry   nav.Entry
	focused bool
}

// invalidationQueue collects bus events. Mutations publish from command
// goroutines; Update drains the queue on the UI goroutine.
type invalidationQueue struct {
	mu      sync.Mutex
	pending []events.Event
}

func (q *invalidationQueue) push(ev events.Event) {
	q.mu.Lock()
	q.pending = append(q.pending, ev)
	q.mu.Unlock()
}

func (q *invalidationQueue) drain() []events.Event {
	q.mu.Lock()
	out := q.pending
	q.pending = nil
	q.mu.Unlock()
	return out
}
