package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskdeck-cli/internal/model"
)

// ETALayout matches JavaScript's Date.prototype.toISOString.
const ETALayout = "2006-01-02T15:04:05.000Z"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session. A 2xx without a token is a failure.
func (c *Client) Login(ctx context.Context, email, password string) Result[model.Session] {
	return call(ctx, c, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, MsgLoginFailed,
		func(r response) (model.Session, bool) {
			if !r.parsed || strings.TrimSpace(r.env.Token) == "" {
				return model.Session{}, false
			}
			var data struct {
				ID string `json:"_id"`
			}
			_ = json.Unmarshal(r.env.Data, &data)
			return model.Session{Token: r.env.Token, UserID: strings.TrimSpace(data.ID)}, true
		})
}

func (c *Client) ListUsers(ctx context.Context) Result[[]model.UserRef] {
	return call(ctx, c, http.MethodGet, "/auth/users", nil, nil, MsgLoadUsersFailed,
		func(r response) ([]model.UserRef, bool) {
			if !r.parsed {
				return nil, false
			}
			users, good := decodeList[model.UserRef](r.env.Users)
			if !good {
				return nil, false
			}
			return model.DedupeUsers(users), true
		})
}

func (c *Client) GetUser(ctx context.Context, userID string) Result[model.UserRef] {
	id, err := pathID(userID)
	if err != nil {
		return fail[model.UserRef](MsgLoadUserFailed)
	}
	return call(ctx, c, http.MethodGet, "/auth/users/"+id, nil, nil, MsgLoadUserFailed,
		func(r response) (model.UserRef, bool) {
			if !r.parsed || len(r.env.User) == 0 {
				return model.UserRef{}, false
			}
			var u model.UserRef
			if err := json.Unmarshal(r.env.User, &u); err != nil || u.ID == "" {
				return model.UserRef{}, false
			}
			return u, true
		})
}

// ListCompanies returns the companies the user belongs to.
func (c *Client) ListCompanies(ctx context.Context, userID string) Result[[]model.Company] {
	id, err := pathID(userID)
	if err != nil {
		return fail[[]model.Company](MsgLoadCompanies)
	}
	return call(ctx, c, http.MethodGet, "/company/"+id, nil, nil, MsgLoadCompanies, dataList[model.Company])
}

func (c *Client) ListProjectsForCompany(ctx context.Context, companyID string) Result[[]model.Project] {
	id, err := pathID(companyID)
	if err != nil {
		return fail[[]model.Project](MsgLoadProjects)
	}
	return call(ctx, c, http.MethodGet, "/company/"+id+"/projects", nil, nil, MsgLoadProjects, dataList[model.Project])
}

func (c *Client) ListTasksForProject(ctx context.Context, projectID, userID string) Result[[]model.Task] {
	id, err := pathID(projectID)
	if err != nil {
		return fail[[]model.Task](MsgLoadTasks)
	}
	q := url.Values{}
	q.Set("userId", userID)
	return call(ctx, c, http.MethodGet, "/project/tasks/"+id, q, nil, MsgLoadTasks, dataList[model.Task])
}

type CreateProjectRequest struct {
	ProjectName        string   `json:"projectName"`
	ProjectDescription string   `json:"projectDescription"`
	CompanyID          string   `json:"companyId"`
	Members            []string `json:"members"`
	UserID             string   `json:"userId"`
}

// CreateProject posts req. The created project may come back bare or under "data".
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) Result[model.Project] {
	if req.Members == nil {
		req.Members = []string{}
	}
	return call(ctx, c, http.MethodPost, "/project", nil, req, MsgCreateProjectFailed, dataOrBody[model.Project])
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   string `json:"projectId"`
	// AssignedTo is a single user id, or "" for unassigned.
	AssignedTo string `json:"assignedTo"`
	ETA        string `json:"eta"`
}

// NewCreateTaskRequest formats eta the way the backend expects.
func NewCreateTaskRequest(title, description, projectID, assignedTo string, eta time.Time) CreateTaskRequest {
	return CreateTaskRequest{
		Title:       title,
		Description: description,
		ProjectID:   projectID,
		AssignedTo:  assignedTo,
		ETA:         eta.UTC().Format(ETALayout),
	}
}

// CreateTask posts req. An empty 2xx body counts as success.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) Result[model.Task] {
	return call(ctx, c, http.MethodPost, "/task", nil, req, MsgCreateTaskFailed,
		func(r response) (model.Task, bool) {
			if len(strings.TrimSpace(string(r.body))) == 0 {
				return model.Task{}, true
			}
			return dataOrBody[model.Task](r)
		})
}

// DeleteTask succeeds only when the backend answers {success: true}.
func (c *Client) DeleteTask(ctx context.Context, taskID string) Result[struct{}] {
	id, err := pathID(taskID)
	if err != nil {
		return fail[struct{}](MsgDeleteTaskFailed)
	}
	return call(ctx, c, http.MethodDelete, "/task/"+id, nil, nil, MsgDeleteTaskFailed,
		func(r response) (struct{}, bool) {
			return struct{}{}, r.parsed && r.env.Success != nil && *r.env.Success
		})
}

func dataList[T any](r response) ([]T, bool) {
	if !r.parsed {
		return nil, false
	}
	return decodeList[T](r.env.Data)
}

func dataOrBody[T any](r response) (T, bool) {
	var out T
	if !r.parsed {
		return out, false
	}
	raw := r.env.Data
	if s := strings.TrimSpace(string(raw)); s == "" || s == "null" || s[0] != '{' {
		raw = r.body
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}
