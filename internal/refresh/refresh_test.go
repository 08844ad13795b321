package refresh

import (
	"errors"
	"testing"
	"time"
)

func TestFocusSuccessBlurFocusFailure_EndsFailedAndEmpty(t *testing.T) {
	t.Parallel()

	c := New[string](Options{})

	t1, ok := c.Focus("P1")
	if !ok || c.State() != Fetching {
		t.Fatalf("expected fetch on first focus; state=%v", c.State())
	}
	if !c.Resolve(t1, []string{"T1", "T2"}, nil) {
		t.Fatalf("expected success to apply")
	}
	if c.State() != Populated || len(c.Items()) != 2 {
		t.Fatalf("expected populated list; state=%v items=%v", c.State(), c.Items())
	}

	c.Blur()
	if c.State() != Populated {
		t.Fatalf("blur must not change state; got %v", c.State())
	}

	t2, ok := c.Focus("P1")
	if !ok {
		t.Fatalf("expected refetch on every focus with MaxAge=0")
	}
	if !c.Resolve(t2, nil, errors.New("boom")) {
		t.Fatalf("expected failure to apply")
	}
	if c.State() != Failed || len(c.Items()) != 0 || c.Err() == nil {
		t.Fatalf("expected Failed and empty; state=%v items=%v err=%v", c.State(), c.Items(), c.Err())
	}
}

func TestResolve_SupersededTicketDropped(t *testing.T) {
	t.Parallel()

	c := New[int](Options{})
	old, _ := c.Focus("P1")
	newer, _ := c.Focus("P1")

	if !c.Resolve(newer, []int{2}, nil) {
		t.Fatalf("expected newer result to apply")
	}
	if c.Resolve(old, []int{1}, nil) {
		t.Fatalf("expected older result to be dropped")
	}
	if got := c.Items(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected newer list kept; got %v", got)
	}
}

func TestResolve_KeyChangeDropsOldAndClearsList(t *testing.T) {
	t.Parallel()

	c := New[string](Options{})
	t1, _ := c.Focus("P1")
	c.Resolve(t1, []string{"a"}, nil)

	stale, _ := c.Refetch()
	if _, ok := c.Focus("P2"); !ok {
		t.Fatalf("expected fetch on key change")
	}
	if len(c.Items()) != 0 {
		t.Fatalf("expected list cleared on key change; got %v", c.Items())
	}
	if c.Resolve(stale, []string{"old"}, nil) {
		t.Fatalf("expected result for previous key dropped")
	}
}

func TestBlur_InFlightStillCommits(t *testing.T) {
	t.Parallel()

	c := New[string](Options{})
	tk, _ := c.Focus("P1")
	c.Blur()
	if !c.Resolve(tk, []string{"x"}, nil) {
		t.Fatalf("expected in-flight result to commit after blur")
	}
}

func TestTeardown_DropsResultsAndRefusesFetch(t *testing.T) {
	t.Parallel()

	c := New[string](Options{})
	tk, _ := c.Focus("P1")
	c.Teardown()
	if c.Resolve(tk, []string{"x"}, nil) {
		t.Fatalf("expected result dropped after teardown")
	}
	if _, ok := c.Focus("P1"); ok {
		t.Fatalf("expected no fetch after teardown")
	}
	if c.Invalidate() {
		t.Fatalf("expected no refetch request after teardown")
	}
}

func TestFocus_EmptyKeyDoesNotFetch(t *testing.T) {
	t.Parallel()

	c := New[string](Options{})
	if _, ok := c.Focus("  "); ok {
		t.Fatalf("expected no fetch without a key")
	}
	if c.State() != Idle {
		t.Fatalf("expected Idle; got %v", c.State())
	}
}

func TestMaxAge_ReusesFreshListUntilInvalidatedOrExpired(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	c := New[string](Options{MaxAge: time.Minute, Now: func() time.Time { return now }})

	tk, _ := c.Focus("C1")
	c.Resolve(tk, []string{"p"}, nil)
	c.Blur()

	if _, ok := c.Focus("C1"); ok {
		t.Fatalf("expected fresh list reused")
	}
	c.Blur()

	if c.Invalidate() {
		t.Fatalf("blurred view should not request an immediate refetch")
	}
	tk, ok := c.Focus("C1")
	if !ok {
		t.Fatalf("expected refetch after invalidation")
	}
	c.Resolve(tk, []string{"p", "q"}, nil)

	if !c.Invalidate() {
		t.Fatalf("focused view should request an immediate refetch")
	}
	tk, ok = c.Refetch()
	if !ok {
		t.Fatalf("expected Refetch ticket")
	}
	c.Resolve(tk, []string{"p"}, nil)
	c.Blur()

	now = now.Add(2 * time.Minute)
	if _, ok := c.Focus("C1"); !ok {
		t.Fatalf("expected refetch after MaxAge")
	}
}
