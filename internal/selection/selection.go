// Package selection holds the application-wide company/project selection.
//
// There is one writer (the drawer) and many readers. Each selection carries a token
// that strictly increases, so a reader can tell a fresh choice of the same company
// from a replay of an old one.
package selection

import (
	"sync"
	"time"

	"taskdeck-cli/internal/model"
)

type Observer func(model.SelectedCompany)

type Context struct {
	mu        sync.Mutex
	now       func() time.Time
	lastToken int64
	current   *model.SelectedCompany
	project   *model.Project
	nextObs   int
	observers map[int]Observer
}

func New() *Context {
	return &Context{now: time.Now, observers: map[int]Observer{}}
}

// NewWithClock is New with an injectable clock, for tests.
func NewWithClock(now func() time.Time) *Context {
	c := New()
	if now != nil {
		c.now = now
	}
	return c
}

// Select records company as current with a fresh token and notifies observers.
// Tokens derive from the clock but never repeat or go backwards.
func (c *Context) Select(company model.Company) model.SelectedCompany {
	c.mu.Lock()
	tok := c.now().UnixMilli()
	if tok <= c.lastToken {
		tok = c.lastToken + 1
	}
	c.lastToken = tok
	sel := model.SelectedCompany{Company: company, Token: tok}
	if c.current == nil || c.current.Company.ID != company.ID {
		c.project = nil
	}
	c.current = &sel
	obs := c.observerList()
	c.mu.Unlock()

	for _, fn := range obs {
		fn(sel)
	}
	return sel
}

func (c *Context) Current() (model.SelectedCompany, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return model.SelectedCompany{}, false
	}
	return *c.current, true
}

// SelectProject records the project opened within the current company.
func (c *Context) SelectProject(p model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := p
	c.project = &cp
}

func (c *Context) CurrentProject() (model.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.project == nil {
		return model.Project{}, false
	}
	return *c.project, true
}

// Reset forgets the selection (logout). Tokens keep increasing afterwards.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	c.project = nil
}

// Subscribe registers fn for future selections.
func (c *Context) Subscribe(fn Observer) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextObs++
	id := c.nextObs
	c.observers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Context) observerList() []Observer {
	out := make([]Observer, 0, len(c.observers))
	for i := 1; i <= c.nextObs; i++ {
		if fn, ok := c.observers[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// Cursor remembers the last selection token a consumer acted on.
// The zero value has consumed nothing.
type Cursor struct {
	last int64
}

// Consume reports whether sel is newer than anything consumed so far and, if so,
// records it. A replayed (company, token) pair returns false.
func (c *Cursor) Consume(sel model.SelectedCompany) bool {
	if sel.Token <= c.last {
		return false
	}
	c.last = sel.Token
	return true
}

func (c *Cursor) Last() int64 { return c.last }
