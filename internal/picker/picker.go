// Package picker holds the state behind the searchable multi-select member panel
// used by the project and task creation screens.
//
// The picker never performs I/O. Operations that need the roster return true for
// "fetch now"; the caller calls BeginFetch, runs the request, and hands the outcome
// to Finish with the generation it got from BeginFetch.
package picker

import (
	"strings"

	"taskdeck-cli/internal/model"
)

type State int

const (
	// NotLoaded means no roster has been fetched for this picker yet.
	NotLoaded State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case NotLoaded:
		return "not-loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Picker is the MemberSelectionState of one screen instance.
type Picker struct {
	visible    bool
	state      State
	candidates []model.UserRef
	selected   []model.UserRef
	searchTerm string
	err        string
	gen        uint64
	inFlight   bool
	closed     bool
}

func New() *Picker {
	return &Picker{}
}

// Open shows the panel. It reports true when a roster fetch should start: the
// roster was never loaded and nothing is in flight.
func (p *Picker) Open() bool {
	if p.closed {
		return false
	}
	p.visible = true
	return p.state == NotLoaded && !p.inFlight
}

// Close hides the panel. Selection and search term are kept.
func (p *Picker) Close() {
	p.visible = false
}

// Retry clears a failure and reports true when a fetch should start.
// It does nothing outside the failed state.
func (p *Picker) Retry() bool {
	if p.closed || p.state != Failed || p.inFlight {
		return false
	}
	p.err = ""
	p.state = NotLoaded
	return true
}

// Refresh requests a refetch while the panel is open (pull to refresh).
// Selection and search term survive the refetch.
func (p *Picker) Refresh() bool {
	return !p.closed && p.visible && !p.inFlight
}

// BeginFetch marks a roster request as started and returns its generation.
// Any earlier in-flight request is superseded.
func (p *Picker) BeginFetch() uint64 {
	p.gen++
	p.inFlight = true
	if p.state != Loaded {
		p.state = Loading
	}
	p.err = ""
	return p.gen
}

// Finish applies a roster result. Results from a superseded request or after
// Teardown are ignored; it reports whether the result was applied.
func (p *Picker) Finish(gen uint64, users []model.UserRef, errMsg string) bool {
	if p.closed || gen != p.gen || !p.inFlight {
		return false
	}
	p.inFlight = false
	if strings.TrimSpace(errMsg) != "" {
		p.state = Failed
		p.err = errMsg
		return true
	}
	p.candidates = model.DedupeUsers(users)
	p.state = Loaded
	p.err = ""
	return true
}

// Teardown marks the owning screen as gone; later results are dropped.
func (p *Picker) Teardown() {
	p.closed = true
	p.visible = false
	p.inFlight = false
	p.gen++
}

// Search sets the filter term. It never mutates the candidate set.
func (p *Picker) Search(term string) {
	p.searchTerm = term
}

// Visible returns the candidates matching the search term: a case-insensitive
// substring of name or email. An empty term returns the full roster.
func (p *Picker) Visible() []model.UserRef {
	term := strings.ToLower(strings.TrimSpace(p.searchTerm))
	if term == "" {
		return append([]model.UserRef(nil), p.candidates...)
	}
	out := make([]model.UserRef, 0, len(p.candidates))
	for _, u := range p.candidates {
		if strings.Contains(strings.ToLower(u.Name), term) || strings.Contains(strings.ToLower(u.Email), term) {
			out = append(out, u)
		}
	}
	return out
}

// Toggle adds the user when absent and removes it when present. Ids unknown to
// the roster are ignored.
func (p *Picker) Toggle(userID string) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return
	}
	for i, u := range p.selected {
		if u.ID == userID {
			p.selected = append(p.selected[:i:i], p.selected[i+1:]...)
			return
		}
	}
	for _, u := range p.candidates {
		if u.ID == userID {
			p.selected = append(p.selected, u)
			return
		}
	}
}

func (p *Picker) IsSelected(userID string) bool {
	for _, u := range p.selected {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Selected returns the selection in the order it was made.
func (p *Picker) Selected() []model.UserRef {
	return append([]model.UserRef(nil), p.selected...)
}

func (p *Picker) SelectedIDs() []string {
	out := make([]string, 0, len(p.selected))
	for _, u := range p.selected {
		out = append(out, u.ID)
	}
	return out
}

func (p *Picker) State() State       { return p.state }
func (p *Picker) Err() string        { return p.err }
func (p *Picker) SearchTerm() string { return p.searchTerm }
func (p *Picker) IsOpen() bool       { return p.visible }
func (p *Picker) Loading() bool      { return p.inFlight }
func (p *Picker) Candidates() int    { return len(p.candidates) }
