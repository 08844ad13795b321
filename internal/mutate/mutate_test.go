package mutate

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskdeck-cli/internal/events"
	"taskdeck-cli/internal/gateway"
	"taskdeck-cli/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	calls int

	loginRes   gateway.Result[model.Session]
	projectReq gateway.CreateProjectRequest
	projectRes gateway.Result[model.Project]
	taskReq    gateway.CreateTaskRequest
	taskRes    gateway.Result[model.Task]
	deletedID  string
	deleteRes  gateway.Result[struct{}]
}

func (f *fakeGateway) Login(_ context.Context, _, _ string) gateway.Result[model.Session] {
	f.calls++
	return f.loginRes
}

func (f *fakeGateway) CreateProject(_ context.Context, req gateway.CreateProjectRequest) gateway.Result[model.Project] {
	f.calls++
	f.projectReq = req
	return f.projectRes
}

func (f *fakeGateway) CreateTask(_ context.Context, req gateway.CreateTaskRequest) gateway.Result[model.Task] {
	f.calls++
	f.taskReq = req
	return f.taskRes
}

func (f *fakeGateway) DeleteTask(_ context.Context, taskID string) gateway.Result[struct{}] {
	f.calls++
	f.deletedID = taskID
	return f.deleteRes
}

type memSessions struct {
	saved   *model.Session
	saveErr error
}

func (m *memSessions) Save(_ context.Context, s model.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &s
	return nil
}

func (m *memSessions) Clear(context.Context) error {
	m.saved = nil
	return nil
}

func collect(bus *events.Bus, kind events.Kind) *[]string {
	var scopes []string
	bus.Subscribe(kind, func(ev events.Event) { scopes = append(scopes, ev.Scope) })
	return &scopes
}

func TestLogin_PersistsSession(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{loginRes: gateway.Result[model.Session]{OK: true, Items: model.Session{Token: "T", UserID: "U1"}}}
	sessions := &memSessions{}
	svc := New(gw, sessions, nil, zerolog.Nop())

	got, err := svc.Login(context.Background(), " a@b.c ", "pw")
	require.NoError(t, err)
	require.Equal(t, model.Session{Token: "T", UserID: "U1"}, got)
	require.NotNil(t, sessions.saved)
	require.Equal(t, got, *sessions.saved)

	require.NoError(t, svc.Logout(context.Background()))
	require.Nil(t, sessions.saved)
}

func TestLogin_ValidationAndRejection(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{loginRes: gateway.Result[model.Session]{ErrorMessage: "Invalid credentials"}}
	sessions := &memSessions{}
	svc := New(gw, sessions, nil, zerolog.Nop())

	_, err := svc.Login(context.Background(), "", "pw")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, MsgCredentialsRequired, verr.Message)
	require.Zero(t, gw.calls)

	_, err = svc.Login(context.Background(), "a@b.c", "bad")
	var rerr RejectedError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, "Invalid credentials", rerr.Message)
	require.Nil(t, sessions.saved)
}

func TestLogin_SaveFailureSurfaces(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{loginRes: gateway.Result[model.Session]{OK: true, Items: model.Session{Token: "T", UserID: "U1"}}}
	svc := New(gw, &memSessions{saveErr: errors.New("disk full")}, nil, zerolog.Nop())

	_, err := svc.Login(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
}

func TestCreateProject_ValidationOrderNoNetwork(t *testing.T) {
	t.Parallel()

	member := []model.UserRef{{ID: "U2"}}
	cases := []struct {
		name string
		in   CreateProjectInput
		want string
	}{
		{"name", CreateProjectInput{Name: "  ", CompanyID: "C1", Members: member, UserID: "U7"}, MsgProjectNameRequired},
		{"company", CreateProjectInput{Name: "Launch", Members: member, UserID: "U7"}, MsgCompanyIDRequired},
		{"members", CreateProjectInput{Name: "Launch", CompanyID: "C1", UserID: "U7"}, MsgMembersRequired},
		{"user", CreateProjectInput{Name: "Launch", CompanyID: "C1", Members: member}, MsgUserIDRequired},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gw := &fakeGateway{}
			_, err := New(gw, nil, nil, zerolog.Nop()).CreateProject(context.Background(), tc.in)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.want, verr.Message)
			require.Zero(t, gw.calls)
		})
	}
}

func TestCreateProject_SendsBodyAndInvalidates(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	scopes := collect(bus, events.CompanyProjectsInvalidated)
	gw := &fakeGateway{projectRes: gateway.Result[model.Project]{OK: true, Items: model.Project{ID: "P9"}}}
	svc := New(gw, nil, bus, zerolog.Nop())

	p, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Name:        " Launch ",
		Description: " Q3 ",
		CompanyID:   "C1",
		Members:     []model.UserRef{{ID: "U2"}, {ID: "U1"}, {ID: "U2"}},
		UserID:      "U7",
	})
	require.NoError(t, err)
	require.Equal(t, "P9", p.ID)
	require.Equal(t, gateway.CreateProjectRequest{
		ProjectName:        "Launch",
		ProjectDescription: "Q3",
		CompanyID:          "C1",
		Members:            []string{"U2", "U1"},
		UserID:             "U7",
	}, gw.projectReq)
	require.Equal(t, []string{"C1"}, *scopes)
}

func TestCreateProject_RejectionDoesNotInvalidate(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	scopes := collect(bus, events.CompanyProjectsInvalidated)
	gw := &fakeGateway{projectRes: gateway.Result[model.Project]{ErrorMessage: gateway.MsgCreateProjectFailed}}

	_, err := New(gw, nil, bus, zerolog.Nop()).CreateProject(context.Background(), CreateProjectInput{
		Name: "Launch", CompanyID: "C1", Members: []model.UserRef{{ID: "U2"}}, UserID: "U7",
	})
	var rerr RejectedError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, "Failed to create project", rerr.Message)
	require.Empty(t, *scopes)
}

func TestCreateTask_FirstMemberAssignedWithNote(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	scopes := collect(bus, events.ProjectTasksInvalidated)
	gw := &fakeGateway{taskRes: gateway.Result[model.Task]{OK: true}}
	svc := New(gw, nil, bus, zerolog.Nop())

	eta := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	res, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Title:     "Fix bug",
		ProjectID: "P1",
		Members:   []model.UserRef{{ID: "U2"}, {ID: "U1"}},
		ETA:       eta,
	})
	require.NoError(t, err)
	require.Equal(t, "U2", res.AssignedTo)
	require.Equal(t, NoteFirstAssigneeOnly, res.Note)
	require.Equal(t, "U2", gw.taskReq.AssignedTo)
	require.Equal(t, "2025-03-01T10:30:00.000Z", gw.taskReq.ETA)
	require.Equal(t, []string{"P1"}, *scopes)

	res, err = svc.CreateTask(context.Background(), CreateTaskInput{Title: "Solo", ProjectID: "P1", ETA: eta})
	require.NoError(t, err)
	require.Empty(t, res.AssignedTo)
	require.Empty(t, res.Note)
	require.Equal(t, "", gw.taskReq.AssignedTo)
}

func TestCreateTask_Validation(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	svc := New(gw, nil, nil, zerolog.Nop())

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{ProjectID: "P1"})
	require.EqualError(t, err, MsgTaskNameRequired)
	_, err = svc.CreateTask(context.Background(), CreateTaskInput{Title: "x"})
	require.EqualError(t, err, MsgProjectIDRequired)
	require.Zero(t, gw.calls)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	scopes := collect(bus, events.ProjectTasksInvalidated)
	gw := &fakeGateway{deleteRes: gateway.Result[struct{}]{OK: true}}
	svc := New(gw, nil, bus, zerolog.Nop())

	require.NoError(t, svc.DeleteTask(context.Background(), "P1", "T1"))
	require.Equal(t, "T1", gw.deletedID)
	require.Equal(t, []string{"P1"}, *scopes)

	gw.deleteRes = gateway.Result[struct{}]{ErrorMessage: gateway.MsgDeleteTaskFailed}
	err := svc.DeleteTask(context.Background(), "P1", "T1")
	require.EqualError(t, err, "Failed to delete task")
	require.Len(t, *scopes, 1)

	require.EqualError(t, svc.DeleteTask(context.Background(), "P1", " "), MsgTaskIDRequired)
}
