// Package events is an in-process invalidation bus. Mutations publish, list
// controllers subscribe and mark themselves stale.
package events

import (
	"sort"
	"sync"
)

type Kind string

const (
	ProjectTasksInvalidated    Kind = "project.tasks.invalidated"
	CompanyProjectsInvalidated Kind = "company.projects.invalidated"
)

// Event names the scope that changed: a project id for task lists, a company id for
// project lists.
type Event struct {
	Kind  Kind
	Scope string
}

type Handler func(Event)

type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	kind Kind
	fn   Handler
}

func NewBus() *Bus {
	return &Bus{subs: map[int]subscription{}}
}

// Subscribe registers fn for events of kind. The returned func removes it and is safe
// to call more than once.
func (b *Bus) Subscribe(kind Kind, fn Handler) (unsubscribe func()) {
	if b == nil || fn == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = subscription{kind: kind, fn: fn}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev synchronously, in subscription order, outside the lock.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id, s := range b.subs {
		if s.kind == ev.Kind {
			ids = append(ids, id)
		}
	}
	handlers := make([]Handler, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, b.subs[id].fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
