package devserver

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, s *Server, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, DefaultBasePath+path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()
	var out map[string]any
	b, _ := io.ReadAll(res.Body)
	if len(b) > 0 {
		require.NoError(t, json.Unmarshal(b, &out), string(b))
	}
	return res.StatusCode, out
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	t.Parallel()

	s := New(Options{Secret: "test-secret", Seed: DemoSeed()})

	code, body := doJSON(t, s, "POST", "/auth/login", `{"email":"ANA@acme.test","password":"password"}`, "")
	require.Equal(t, 200, code)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	data, _ := body["data"].(map[string]any)
	require.Equal(t, "u-ana", data["_id"])
	_, hasPassword := data["password"]
	require.False(t, hasPassword)

	userID, err := parseToken("test-secret", tok)
	require.NoError(t, err)
	require.Equal(t, "u-ana", userID)

	_, err = parseToken("other-secret", tok)
	require.Error(t, err)

	code, body = doJSON(t, s, "POST", "/auth/login", `{"email":"ana@acme.test","password":"nope"}`, "")
	require.Equal(t, 401, code)
	require.Equal(t, "Invalid credentials", body["message"])
}

func TestNew_StoresOnlyPasswordHashes(t *testing.T) {
	t.Parallel()

	s := New(Options{Seed: Seed{Users: []User{
		{ID: "u-1", Email: "one@x.test", Password: "secret"},
		{ID: "u-2", Email: "two@x.test"},
	}}})
	for _, u := range s.users {
		require.Empty(t, u.Password)
	}
	require.NotEqual(t, "secret", s.users[0].PasswordHash)
	require.NotEmpty(t, s.users[0].PasswordHash)

	code, _ := doJSON(t, s, "POST", "/auth/login", `{"email":"two@x.test","password":""}`, "")
	require.Equal(t, 401, code)
	code, _ = doJSON(t, s, "POST", "/auth/login", `{"email":"one@x.test","password":"secret"}`, "")
	require.Equal(t, 200, code)
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	s := New(Options{Secret: "k", RequireAuth: true, Seed: DemoSeed()})

	code, _ := doJSON(t, s, "GET", "/auth/users", "", "")
	require.Equal(t, 401, code)

	code, _ = doJSON(t, s, "GET", "/auth/users", "", "garbage")
	require.Equal(t, 401, code)

	tok, err := generateToken("k", "u-ana", "admin", time.Hour)
	require.NoError(t, err)
	code, body := doJSON(t, s, "GET", "/auth/users", "", tok)
	require.Equal(t, 200, code)
	require.Len(t, body["users"], 3)
}

func TestCompaniesAndProjectsEnvelopes(t *testing.T) {
	t.Parallel()

	s := New(Options{Seed: DemoSeed()})

	code, body := doJSON(t, s, "GET", "/company/u-bo", "", "")
	require.Equal(t, 200, code)
	require.Len(t, body["data"], 1)

	code, body = doJSON(t, s, "GET", "/company/c-acme/projects", "", "")
	require.Equal(t, 200, code)
	projects := body["data"].([]any)
	require.Len(t, projects, 1)
	members := projects[0].(map[string]any)["members"].([]any)
	require.Equal(t, "u-ana", members[0].(map[string]any)["_id"])

	code, body = doJSON(t, s, "GET", "/project/tasks/missing", "", "")
	require.Equal(t, 404, code)
	require.Equal(t, false, body["success"])
}

func TestCreateAndDeleteTask(t *testing.T) {
	t.Parallel()

	s := New(Options{Seed: DemoSeed()})

	code, body := doJSON(t, s, "POST", "/task", `{"title":"QA","projectId":"p-launch","assignedTo":"u-chen","eta":"2025-03-01T08:30:00.000Z"}`, "")
	require.Equal(t, 201, code)
	created := body["data"].(map[string]any)
	id := created["_id"].(string)
	require.NotEmpty(t, id)
	_, hasStatus := created["status"]
	require.False(t, hasStatus)

	code, _ = doJSON(t, s, "POST", "/task", `{"title":"QA","projectId":"p-launch","eta":"soon"}`, "")
	require.Equal(t, 400, code)

	code, body = doJSON(t, s, "DELETE", "/task/"+id, "", "")
	require.Equal(t, 200, code)
	require.Equal(t, true, body["success"])

	code, body = doJSON(t, s, "DELETE", "/task/"+id, "", "")
	require.Equal(t, 404, code)
	require.Equal(t, false, body["success"])
}
