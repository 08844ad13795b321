// Package refresh keeps a list view consistent with the backend by refetching
// when the view gains focus.
//
// A Controller is owned by one screen and mutated only from that screen's update
// loop. Fetches happen elsewhere: Focus hands out a Ticket, and the result comes
// back through Resolve with that ticket. Results for superseded tickets, or any
// ticket after Teardown, are dropped.
package refresh

import (
	"strings"
	"time"
)

type State int

const (
	Idle State = iota
	Fetching
	Populated
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Populated:
		return "populated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket identifies one fetch request.
type Ticket struct {
	Gen uint64
	Key string
}

type Options struct {
	// MaxAge bounds how long a populated list is reused across focus events.
	// Zero refetches on every focus.
	MaxAge time.Duration
	Now    func() time.Time
}

type Controller[T any] struct {
	opts Options

	state    State
	key      string
	items    []T
	err      error
	gen      uint64
	loadedAt time.Time
	stale    bool
	focused  bool
	torn     bool
}

func New[T any](opts Options) *Controller[T] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxAge < 0 {
		opts.MaxAge = 0
	}
	return &Controller[T]{opts: opts}
}

// Focus marks the view focused for key. It returns a ticket when a fetch should be
// started. An empty key never fetches: there is nothing selected to load.
func (c *Controller[T]) Focus(key string) (Ticket, bool) {
	if c.torn {
		return Ticket{}, false
	}
	c.focused = true
	key = strings.TrimSpace(key)
	if key == "" {
		return Ticket{}, false
	}
	if !c.needsFetch(key) {
		return Ticket{}, false
	}
	return c.begin(key), true
}

// Blur records focus loss. In-flight results still commit.
func (c *Controller[T]) Blur() {
	c.focused = false
}

// Invalidate marks the cached list stale. It reports whether the view is focused
// on a key, in which case the caller should call Refetch right away.
func (c *Controller[T]) Invalidate() bool {
	if c.torn {
		return false
	}
	c.stale = true
	return c.focused && c.key != ""
}

// Refetch starts a fetch for the current key regardless of staleness (pull to refresh).
func (c *Controller[T]) Refetch() (Ticket, bool) {
	if c.torn || c.key == "" {
		return Ticket{}, false
	}
	return c.begin(c.key), true
}

// Resolve commits a fetch result. Success replaces the whole list, failure clears it.
// It reports whether the result was applied.
func (c *Controller[T]) Resolve(t Ticket, items []T, err error) bool {
	if c.torn || t.Gen != c.gen || t.Key != c.key {
		return false
	}
	if err != nil {
		c.state = Failed
		c.items = nil
		c.err = err
		c.loadedAt = time.Time{}
		return true
	}
	c.state = Populated
	c.items = append([]T(nil), items...)
	c.err = nil
	c.loadedAt = c.opts.Now()
	c.stale = false
	return true
}

// Teardown drops any in-flight result and refuses further fetches.
func (c *Controller[T]) Teardown() {
	c.torn = true
	c.focused = false
	c.gen++
}

func (c *Controller[T]) State() State  { return c.state }
func (c *Controller[T]) Key() string   { return c.key }
func (c *Controller[T]) Err() error    { return c.err }
func (c *Controller[T]) Focused() bool { return c.focused }
func (c *Controller[T]) Items() []T    { return c.items }

// Replace edits the committed list in place (e.g. after a local delete) without a fetch.
func (c *Controller[T]) Replace(items []T) {
	c.items = append([]T(nil), items...)
}

func (c *Controller[T]) needsFetch(key string) bool {
	if key != c.key || c.stale || c.opts.MaxAge == 0 {
		return true
	}
	switch c.state {
	case Populated:
		return c.opts.Now().Sub(c.loadedAt) >= c.opts.MaxAge
	case Fetching:
		return false
	default:
		return true
	}
}

func (c *Controller[T]) begin(key string) Ticket {
	if key != c.key {
		c.items = nil
		c.err = nil
	}
	c.gen++
	c.key = key
	c.state = Fetching
	c.stale = false
	return Ticket{Gen: c.gen, Key: key}
}
