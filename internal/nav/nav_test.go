package nav

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"taskdeck-cli/internal/model"
)

func TestStack_FocusNotifications(t *testing.T) {
	t.Parallel()

	var log []string
	s := NewStack(Entry{Route: Home}, func(e Entry, focused bool) {
		log = append(log, fmt.Sprintf("%s:%v", e.Route, focused))
	})
	s.Push(ProjectDetails, Params{ProjectID: "P1"})
	s.Push(CreateTask, Params{ProjectID: "P1"})
	if _, ok := s.Pop(); !ok {
		t.Fatalf("expected pop")
	}
	s.Pop()
	if _, ok := s.Pop(); ok {
		t.Fatalf("expected root pop to be refused")
	}

	want := []string{
		"Home:true",
		"Home:false", "ProjectDetails:true",
		"ProjectDetails:false", "CreateTask:true",
		"CreateTask:false", "ProjectDetails:true",
		"ProjectDetails:false", "Home:true",
	}
	if !reflect.DeepEqual(log, want) {
		t.Fatalf("unexpected focus log:\n got %v\nwant %v", log, want)
	}
}

func TestStack_ResetAndReplace(t *testing.T) {
	t.Parallel()

	s := NewStack(Entry{Route: Home}, nil)
	s.Push(ProjectDetails, Params{})
	s.Reset(Login, Params{})
	if s.Depth() != 1 || s.Top().Route != Login {
		t.Fatalf("unexpected stack after reset: %v", s.Top())
	}
	s.Replace(Register, Params{})
	if s.Depth() != 1 || s.Top().Route != Register {
		t.Fatalf("unexpected stack after replace: %v", s.Top())
	}
}

type fakeLoader struct {
	sess model.Session
	ok   bool
}

func (f fakeLoader) Load(context.Context) (model.Session, bool) { return f.sess, f.ok }

func TestLandingRoute(t *testing.T) {
	t.Parallel()

	if r, _ := LandingRoute(context.Background(), fakeLoader{}); r != Login {
		t.Fatalf("expected Login without session; got %v", r)
	}
	if r, _ := LandingRoute(context.Background(), nil); r != Login {
		t.Fatalf("expected Login without store; got %v", r)
	}
	r, sess := LandingRoute(context.Background(), fakeLoader{sess: model.Session{Token: "T", UserID: "U"}, ok: true})
	if r != DrawerRoot || sess.Token != "T" {
		t.Fatalf("expected DrawerRoot with session; got %v %#v", r, sess)
	}
}
