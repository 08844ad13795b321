package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"taskdeck-cli/internal/model"

	"github.com/rs/zerolog"
)

func TestSessionStore_SaveLoadClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}.Sessions(zerolog.Nop())

	if _, ok := s.Load(ctx); ok {
		t.Fatalf("expected no session in a fresh store")
	}

	want := model.Session{Token: "T", UserID: "U1"}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := s.Load(ctx)
	if !ok || got != want {
		t.Fatalf("Load after Save: ok=%v got=%#v", ok, got)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, ok := s.Load(ctx); ok {
		t.Fatalf("expected absent session after Clear; got %#v", got)
	}
}

func TestSessionStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	if err := (Store{Dir: dir}).Sessions(zerolog.Nop()).Save(ctx, model.Session{Token: "tok", UserID: "u"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := Store{Dir: dir}.Sessions(zerolog.Nop()).Load(ctx)
	if !ok || got.Token != "tok" || got.UserID != "u" {
		t.Fatalf("expected session after reopen; ok=%v got=%#v", ok, got)
	}
}

func TestSessionStore_RejectsPartialSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}.Sessions(zerolog.Nop())
	for _, sess := range []model.Session{{Token: "T"}, {UserID: "U"}, {Token: "  ", UserID: "U"}} {
		if err := s.Save(ctx, sess); err != ErrInvalidSession {
			t.Fatalf("Save(%#v): expected ErrInvalidSession; got %v", sess, err)
		}
	}
	if _, ok := s.Load(ctx); ok {
		t.Fatalf("expected nothing persisted")
	}
}

func TestSessionStore_UnavailableStorageFailsOpen(t *testing.T) {
	t.Parallel()

	// A regular file where the directory should be makes the store unusable.
	base := t.TempDir()
	blocker := filepath.Join(base, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	s := Store{Dir: filepath.Join(blocker, "nested")}.Sessions(zerolog.Nop())

	if _, ok := s.Load(context.Background()); ok {
		t.Fatalf("expected absent session when storage is unavailable")
	}
	if err := s.Save(context.Background(), model.Session{Token: "T", UserID: "U"}); err == nil {
		t.Fatalf("expected Save error when storage is unavailable")
	}
}

func TestSessionStore_ConcurrentReadersNeverSeeHalfSession(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := Store{Dir: dir}.Sessions(zerolog.Nop())
	if err := s.Save(ctx, model.Session{Token: "T0", UserID: "U0"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	pairs := map[string]string{"T0": "U0", "T1": "U1", "T2": "U2"}

	var wg sync.WaitGroup
	errCh := make(chan string, 64)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			tok := []string{"T1", "T2"}[i%2]
			if err := s.Save(ctx, model.Session{Token: tok, UserID: pairs[tok]}); err != nil {
				errCh <- "save: " + err.Error()
				return
			}
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reader := Store{Dir: dir}.Sessions(zerolog.Nop())
			for i := 0; i < 10; i++ {
				got, ok := reader.Load(ctx)
				if !ok {
					continue
				}
				if pairs[got.Token] != got.UserID {
					errCh <- "torn session: " + got.Token + "/" + got.UserID
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for msg := range errCh {
		t.Error(msg)
	}
}
