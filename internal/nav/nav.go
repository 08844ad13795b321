// Package nav is the screen stack: named routes, typed params, and focus
// notifications when a screen is covered or uncovered.
package nav

import (
	"context"

	"taskdeck-cli/internal/model"
)

type Route string

const (
	Splash         Route = "Splash"
	Login          Route = "Login"
	Register       Route = "Register"
	DrawerRoot     Route = "DrawerRoot"
	Home           Route = "Home"
	AllTasks       Route = "AllTasks"
	MyTasks        Route = "MyTasks"
	Profile        Route = "Profile"
	CreateProject  Route = "CreateProject"
	CreateTask     Route = "CreateTask"
	ProjectDetails Route = "ProjectDetails"
)

// Tabs are the routes reachable inside DrawerRoot, in display order.
var Tabs = []Route{Home, AllTasks, MyTasks, Profile}

// Params is the payload attached to a transition. Only the fields relevant to the
// target route are set.
type Params struct {
	CompanyID string
	ProjectID string
	Project   *model.Project
	// Selection is set on transitions into Home from the drawer.
	Selection *model.SelectedCompany
}

type Entry struct {
	Route  Route
	Params Params
}

// FocusFunc is told when an entry gains (true) or loses (false) focus.
type FocusFunc func(e Entry, focused bool)

type Stack struct {
	entries []Entry
	onFocus FocusFunc
}

func NewStack(root Entry, onFocus FocusFunc) *Stack {
	s := &Stack{onFocus: onFocus}
	s.entries = []Entry{root}
	s.notify(root, true)
	return s
}

func (s *Stack) Top() Entry {
	return s.entries[len(s.entries)-1]
}

func (s *Stack) Depth() int { return len(s.entries) }

// Push covers the current screen with a new one.
func (s *Stack) Push(r Route, p Params) {
	s.notify(s.Top(), false)
	e := Entry{Route: r, Params: p}
	s.entries = append(s.entries, e)
	s.notify(e, true)
}

// Pop returns to the previous screen, which regains focus. Popping the root is a no-op.
func (s *Stack) Pop() (Entry, bool) {
	if len(s.entries) <= 1 {
		return Entry{}, false
	}
	top := s.Top()
	s.notify(top, false)
	s.entries = s.entries[:len(s.entries)-1]
	s.notify(s.Top(), true)
	return top, true
}

// Reset replaces the whole stack (login, logout).
func (s *Stack) Reset(r Route, p Params) {
	if len(s.entries) > 0 {
		s.notify(s.Top(), false)
	}
	e := Entry{Route: r, Params: p}
	s.entries = []Entry{e}
	s.notify(e, true)
}

// Replace swaps the top entry in place (tab switches).
func (s *Stack) Replace(r Route, p Params) {
	s.notify(s.Top(), false)
	e := Entry{Route: r, Params: p}
	s.entries[len(s.entries)-1] = e
	s.notify(e, true)
}

func (s *Stack) notify(e Entry, focused bool) {
	if s.onFocus != nil {
		s.onFocus(e, focused)
	}
}

// SessionLoader is the part of the session store that startup routing needs.
type SessionLoader interface {
	Load(ctx context.Context) (model.Session, bool)
}

// LandingRoute decides the first screen after Splash.
func LandingRoute(ctx context.Context, sessions SessionLoader) (Route, model.Session) {
	if sessions == nil {
		return Login, model.Session{}
	}
	sess, ok := sessions.Load(ctx)
	if !ok || !sess.Valid() {
		return Login, model.Session{}
	}
	return DrawerRoot, sess
}
