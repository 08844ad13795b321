package devserver_test

import (
	"context"
	"net"
	"testing"
	"time"

	"taskdeck-cli/internal/devserver"
	"taskdeck-cli/internal/events"
	"taskdeck-cli/internal/gateway"
	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/mutate"
	"taskdeck-cli/internal/nav"
	"taskdeck-cli/internal/refresh"
	"taskdeck-cli/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, seed devserver.Seed) (*devserver.Server, string) {
	t.Helper()
	s := devserver.New(devserver.Options{Secret: "e2e", Seed: seed})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s, "http://" + ln.Addr().String() + devserver.DefaultBasePath
}

func TestE2E_LoginPersistsSessionAndRoutesToAuthenticatedArea(t *testing.T) {
	_, base := startServer(t, devserver.DemoSeed())
	ctx := context.Background()
	dir := t.TempDir()

	sessions := store.Store{Dir: dir}.Sessions(zerolog.Nop())
	route, _ := nav.LandingRoute(ctx, sessions)
	require.Equal(t, nav.Login, route)

	svc := mutate.New(gateway.New(base), sessions, events.NewBus(), zerolog.Nop())
	sess, err := svc.Login(ctx, "ana@acme.test", "password")
	require.NoError(t, err)
	require.Equal(t, "u-ana", sess.UserID)
	require.NotEmpty(t, sess.Token)

	// A fresh process reading the same store lands in the authenticated area.
	route, loaded := nav.LandingRoute(ctx, store.Store{Dir: dir}.Sessions(zerolog.Nop()))
	require.Equal(t, nav.DrawerRoot, route)
	require.Equal(t, sess, loaded)

	require.NoError(t, svc.Logout(ctx))
	route, _ = nav.LandingRoute(ctx, sessions)
	require.Equal(t, nav.Login, route)
}

func TestE2E_CreateProjectSendsBodyAndBlocksWithoutCompany(t *testing.T) {
	srv, base := startServer(t, devserver.DemoSeed())
	ctx := context.Background()

	bus := events.NewBus()
	home := refresh.New[model.Project](refresh.Options{})
	bus.Subscribe(events.CompanyProjectsInvalidated, func(events.Event) { home.Invalidate() })

	gw := gateway.New(base)
	svc := mutate.New(gw, nil, bus, zerolog.Nop())
	members := []model.UserRef{{ID: "u-bo"}, {ID: "u-chen"}}

	before := len(srv.Projects())
	_, err := svc.CreateProject(ctx, mutate.CreateProjectInput{Name: "Orbit", Members: members, UserID: "u-ana"})
	var verr mutate.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "CompanyId is required", verr.Message)
	require.Len(t, srv.Projects(), before)

	p, err := svc.CreateProject(ctx, mutate.CreateProjectInput{
		Name:        " Orbit ",
		Description: "Reach orbit",
		CompanyID:   "c-acme",
		Members:     members,
		UserID:      "u-ana",
	})
	require.NoError(t, err)
	require.Equal(t, "Orbit", p.ProjectName)

	stored := srv.Projects()
	require.Len(t, stored, before+1)
	last := stored[len(stored)-1]
	require.Equal(t, "Orbit", last.ProjectName)
	require.Equal(t, "Reach orbit", last.ProjectDescription)
	require.Equal(t, "c-acme", last.CompanyID)
	require.Equal(t, []string{"u-bo", "u-chen"}, last.Members)
	require.Equal(t, "u-ana", last.CreatedBy)

	// Home refocus after the mutation sees the new project.
	tk, ok := home.Focus("c-acme")
	require.True(t, ok)
	res := gw.ListProjectsForCompany(ctx, "c-acme")
	require.True(t, res.OK)
	require.True(t, home.Resolve(tk, res.Items, nil))
	require.Len(t, home.Items(), 2)
}

func TestE2E_TaskListShowsToDoThenEmptiesAfterDelete(t *testing.T) {
	seed := devserver.DemoSeed()
	seed.Tasks = []devserver.Task{{ID: "T1", Title: "Fix bug", ProjectID: "p-launch", ETA: time.Now().UTC()}}
	_, base := startServer(t, seed)
	ctx := context.Background()

	bus := events.NewBus()
	gw := gateway.New(base)
	svc := mutate.New(gw, nil, bus, zerolog.Nop())
	details := refresh.New[model.Task](refresh.Options{})

	refetch := func(tk refresh.Ticket) {
		res := gw.ListTasksForProject(ctx, tk.Key, "u-ana")
		var err error
		if !res.OK {
			err = mutate.RejectedError{Message: res.ErrorMessage}
		}
		require.True(t, details.Resolve(tk, res.Items, err))
	}
	bus.Subscribe(events.ProjectTasksInvalidated, func(ev events.Event) {
		if ev.Scope == details.Key() && details.Invalidate() {
			if tk, ok := details.Refetch(); ok {
				refetch(tk)
			}
		}
	})

	tk, ok := details.Focus("p-launch")
	require.True(t, ok)
	refetch(tk)
	require.Equal(t, refresh.Populated, details.State())
	require.Len(t, details.Items(), 1)
	require.Equal(t, "Fix bug", details.Items()[0].Title)
	require.Equal(t, model.TaskStatusToDo, details.Items()[0].Status)

	require.NoError(t, svc.DeleteTask(ctx, "p-launch", "T1"))
	require.Equal(t, refresh.Populated, details.State())
	require.Empty(t, details.Items())
}
