package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskdeck-cli/internal/model"

	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	body   map[string]any
	header http.Header
}

func fakeBackend(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, header: r.Header.Clone()}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		h, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/project-0"), &calls
}

func writeJSON(status int, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	c, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/project-0/auth/login": writeJSON(200, `{"token":"T","data":{"_id":"U1"}}`),
	})

	res := c.Login(context.Background(), "a@b.c", "pw")
	require.True(t, res.OK, res.ErrorMessage)
	require.Equal(t, model.Session{Token: "T", UserID: "U1"}, res.Items)

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	require.Equal(t, map[string]any{"email": "a@b.c", "password": "pw"}, got.body)
	require.NotEmpty(t, got.header.Get(RequestIDHeader))
	require.Empty(t, got.header.Get("Authorization"))
}

func TestLogin_FailureMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		h    func(http.ResponseWriter, *http.Request)
		want string
	}{
		{"server message", writeJSON(401, `{"message":"Invalid credentials"}`), "Invalid credentials"},
		{"no message", writeJSON(500, `oops`), MsgLoginFailed},
		{"2xx without token", writeJSON(200, `{"data":{"_id":"U1"}}`), MsgLoginFailed},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
				"POST /api/project-0/auth/login": tc.h,
			})
			res := c.Login(context.Background(), "a", "b")
			require.False(t, res.OK)
			require.Equal(t, tc.want, res.ErrorMessage)
		})
	}
}

func TestListUsers_NormalizesEnvelope(t *testing.T) {
	t.Parallel()

	c, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/project-0/auth/users": writeJSON(200, `{"users":[{"_id":"U1","fullName":"Ana","email":"ana@x.io"},{"_id":"U2","userName":"bo"},{"_id":"U1","fullName":"Dup"}]}`),
	})

	res := c.WithSession("tok").ListUsers(context.Background())
	require.True(t, res.OK)
	require.Equal(t, []model.UserRef{
		{ID: "U1", Name: "Ana", Email: "ana@x.io", Role: "user"},
		{ID: "U2", Name: "bo", Role: "user"},
	}, res.Items)
	require.Equal(t, "Bearer tok", (*calls)[0].header.Get("Authorization"))
}

func TestListUsers_EmptyIsOKNotError(t *testing.T) {
	t.Parallel()

	c, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/project-0/auth/users": writeJSON(200, `{"users":[]}`),
	})
	res := c.ListUsers(context.Background())
	require.True(t, res.OK)
	require.NotNil(t, res.Items)
	require.Empty(t, res.Items)
}

func TestListUsers_MalformedBody(t *testing.T) {
	t.Parallel()

	c, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/project-0/auth/users": writeJSON(200, `{"users":"nope"}`),
	})
	res := c.ListUsers(context.Background())
	require.False(t, res.OK)
	require.Equal(t, MsgLoadUsersFailed, res.ErrorMessage)
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	c, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/project-0/auth/users/U1": writeJSON(200, `{"user":{"_id":"U1","fullName":"Ana","email":"ana@x.io","role":"admin"}}`),
	})
	res := c.GetUser(context.Background(), "U1")
	require.True(t, res.OK)
	require.Equal(t, model.UserRef{ID: "U1", Name: "Ana", Email: "ana@x.io", Role: "admin"}, res.Items)

	missing := c.GetUser(context.Background(), "")
	require.False(t, missing.OK)
	require.Equal(t, MsgLoadUserFailed, missing.ErrorMessage)
}

func TestListCompaniesAndProjects(t *testing.T) {
	t.Parallel()

	c, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/project-0/company/U1":          writeJSON(200, `{"data":[{"_id":"C1","name":"Acme","description":"Rockets"}]}`),
		"GET /api/project-0/company/C1/projects": writeJSON(200, `{"data":null}`),
	})

	companies := c.ListCompanies(context.Background(), "U1")
	require.True(t, companies.OK)
	require.Equal(t, []model.Company{{ID: "C1", Name: "Acme", Description: "Rockets"}}, companies.Items)

	projects := c.ListProjectsForCompany(context.Background(), "C1")
	require.True(t, projects.OK)
	require.Empty(t, projects.Items)
}

func TestListTasksForProject(t *testing.T) {
	t.Parallel()

	c, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/project-0/project/tasks/P1": writeJSON(200, `{"success":true,"data":[{"_id":"T1","title":"Fix bug","projectId":"P1"}]}`),
		"GET /api/project-0/project/tasks/P2": writeJSON(200, `{"success":false,"message":"Not a member"}`),
	})

	res := c.ListTasksForProject(context.Background(), "P1", "U1")
	require.True(t, res.OK)
	require.Len(t, res.Items, 1)
	require.Equal(t, model.TaskStatusToDo, res.Items[0].Status)
	require.Equal(t, "userId=U1", (*calls)[0].query)

	rejected := c.ListTasksForProject(context.Background(), "P2", "U1")
	require.False(t, rejected.OK)
	require.Equal(t, "Not a member", rejected.ErrorMessage)
}

func TestCreateProject_BodyAndRejection(t *testing.T) {
	t.Parallel()

	c, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/project-0/project": writeJSON(201, `{"_id":"P9","projectName":"Launch","companyId":"C1","members":["U2","U1"]}`),
	})

	res := c.CreateProject(context.Background(), CreateProjectRequest{
		ProjectName: "Launch", CompanyID: "C1", Members: []string{"U2", "U1"}, UserID: "U7",
	})
	require.True(t, res.OK)
	require.Equal(t, "P9", res.Items.ID)
	require.Equal(t, map[string]any{
		"projectName":        "Launch",
		"projectDescription": "",
		"companyId":          "C1",
		"members":            []any{"U2", "U1"},
		"userId":             "U7",
	}, (*calls)[0].body)

	c2, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/project-0/project": writeJSON(400, `{}`),
	})
	rejected := c2.CreateProject(context.Background(), CreateProjectRequest{ProjectName: "x"})
	require.False(t, rejected.OK)
	require.Equal(t, MsgCreateProjectFailed, rejected.ErrorMessage)
}

func TestCreateTask_ETAFormatAndEmptyBody(t *testing.T) {
	t.Parallel()

	c, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/project-0/task": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) },
	})

	eta := time.Date(2025, 3, 1, 10, 30, 0, 0, time.FixedZone("X", 2*3600))
	res := c.CreateTask(context.Background(), NewCreateTaskRequest("Fix bug", "", "P1", "U2", eta))
	require.True(t, res.OK, res.ErrorMessage)
	require.Equal(t, "2025-03-01T08:30:00.000Z", (*calls)[0].body["eta"])
	require.Equal(t, "U2", (*calls)[0].body["assignedTo"])
}

func TestDeleteTask_RequiresSuccessTrue(t *testing.T) {
	t.Parallel()

	c, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"DELETE /api/project-0/task/T1": writeJSON(200, `{"success":true}`),
		"DELETE /api/project-0/task/T2": writeJSON(200, `{}`),
		"DELETE /api/project-0/task/T3": writeJSON(404, `{"success":false,"message":"Task not found"}`),
	})

	require.True(t, c.DeleteTask(context.Background(), "T1").OK)

	res := c.DeleteTask(context.Background(), "T2")
	require.False(t, res.OK)
	require.Equal(t, MsgDeleteTaskFailed, res.ErrorMessage)

	res = c.DeleteTask(context.Background(), "T3")
	require.False(t, res.OK)
	require.Equal(t, "Task not found", res.ErrorMessage)
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := New(url).ListCompanies(context.Background(), "U1")
	require.False(t, res.OK)
	require.Equal(t, MsgLoadCompanies, res.ErrorMessage)
}

func TestTimeoutIsApplied(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	res := New(srv.URL, WithTimeout(50*time.Millisecond)).ListUsers(context.Background())
	require.False(t, res.OK)
	require.Contains(t, res.ErrorMessage, MsgLoadUsersFailed)
}
