// Package mutate implements the write flows: login/logout, project and task
// creation, task deletion. Each flow validates locally, submits through the
// gateway, and on success publishes an invalidation so list views refetch.
package mutate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskdeck-cli/internal/events"
	"taskdeck-cli/internal/gateway"
	"taskdeck-cli/internal/model"

	"github.com/rs/zerolog"
)

type Gateway interface {
	Login(ctx context.Context, email, password string) gateway.Result[model.Session]
	CreateProject(ctx context.Context, req gateway.CreateProjectRequest) gateway.Result[model.Project]
	CreateTask(ctx context.Context, req gateway.CreateTaskRequest) gateway.Result[model.Task]
	DeleteTask(ctx context.Context, taskID string) gateway.Result[struct{}]
}

type Sessions interface {
	Save(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
}

type Service struct {
	gw       Gateway
	sessions Sessions
	bus      *events.Bus
	log      zerolog.Logger
}

// New wires a Service. sessions and bus may be nil (e.g. one-shot CLI commands
// that neither persist nor observe).
func New(gw Gateway, sessions Sessions, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{gw: gw, sessions: sessions, bus: bus, log: log.With().Str("component", "mutate").Logger()}
}

// Login authenticates and persists the session. Both keys are saved together.
func (s *Service) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Session{}, ValidationError{Field: "credentials", Message: MsgCredentialsRequired}
	}
	res := s.gw.Login(ctx, email, password)
	if !res.OK {
		s.log.Info().Str("email", email).Str("reason", res.ErrorMessage).Msg("login rejected")
		return model.Session{}, RejectedError{Message: res.ErrorMessage}
	}
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, res.Items); err != nil {
			return model.Session{}, fmt.Errorf("save session: %w", err)
		}
	}
	return res.Items, nil
}

// Logout clears the persisted session.
func (s *Service) Logout(ctx context.Context) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Clear(ctx)
}

type CreateProjectInput struct {
	Name        string
	Description string
	CompanyID   string
	Members     []model.UserRef
	// UserID is the creator, taken from the session.
	UserID string
}

// Validate checks inputs in the order the form reports them.
func (in CreateProjectInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return ValidationError{Field: "projectName", Message: MsgProjectNameRequired}
	case strings.TrimSpace(in.CompanyID) == "":
		return ValidationError{Field: "companyId", Message: MsgCompanyIDRequired}
	case len(in.Members) == 0:
		return ValidationError{Field: "members", Message: MsgMembersRequired}
	case strings.TrimSpace(in.UserID) == "":
		return ValidationError{Field: "userId", Message: MsgUserIDRequired}
	}
	return nil
}

// Request builds the wire body: trimmed name and description, member ids in
// selection order.
func (in CreateProjectInput) Request() gateway.CreateProjectRequest {
	members := make([]string, 0, len(in.Members))
	for _, m := range model.DedupeUsers(in.Members) {
		members = append(members, m.ID)
	}
	return gateway.CreateProjectRequest{
		ProjectName:        strings.TrimSpace(in.Name),
		ProjectDescription: strings.TrimSpace(in.Description),
		CompanyID:          strings.TrimSpace(in.CompanyID),
		Members:            members,
		UserID:             strings.TrimSpace(in.UserID),
	}
}

func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (model.Project, error) {
	if err := in.Validate(); err != nil {
		return model.Project{}, err
	}
	req := in.Request()
	res := s.gw.CreateProject(ctx, req)
	if !res.OK {
		return model.Project{}, RejectedError{Message: res.ErrorMessage}
	}
	s.bus.Publish(events.Event{Kind: events.CompanyProjectsInvalidated, Scope: req.CompanyID})
	s.log.Debug().Str("companyId", req.CompanyID).Str("projectId", res.Items.ID).Msg("project created")
	return res.Items, nil
}

type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   string
	// Members is the picker selection. Only the first entry becomes the assignee.
	Members []model.UserRef
	ETA     time.Time
}

type CreateTaskResult struct {
	Task model.Task
	// AssignedTo is the id sent to the backend ("" when nobody was selected).
	AssignedTo string
	// Note is non-empty when part of the selection was not sent.
	Note string
}

func (in CreateTaskInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return ValidationError{Field: "title", Message: MsgTaskNameRequired}
	case strings.TrimSpace(in.ProjectID) == "":
		return ValidationError{Field: "projectId", Message: MsgProjectIDRequired}
	}
	return nil
}

func (in CreateTaskInput) Request(now time.Time) gateway.CreateTaskRequest {
	assigned := ""
	if len(in.Members) > 0 {
		assigned = in.Members[0].ID
	}
	eta := in.ETA
	if eta.IsZero() {
		eta = now
	}
	return gateway.NewCreateTaskRequest(in.Title, in.Description, strings.TrimSpace(in.ProjectID), assigned, eta)
}

func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (CreateTaskResult, error) {
	if err := in.Validate(); err != nil {
		return CreateTaskResult{}, err
	}
	req := in.Request(time.Now())
	res := s.gw.CreateTask(ctx, req)
	if !res.OK {
		return CreateTaskResult{}, RejectedError{Message: res.ErrorMessage}
	}
	s.bus.Publish(events.Event{Kind: events.ProjectTasksInvalidated, Scope: req.ProjectID})

	out := CreateTaskResult{Task: res.Items, AssignedTo: req.AssignedTo}
	if len(in.Members) > 1 {
		out.Note = NoteFirstAssigneeOnly
	}
	return out, nil
}

// DeleteTask removes a task. projectID scopes the invalidation and may be empty.
func (s *Service) DeleteTask(ctx context.Context, projectID, taskID string) error {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return ValidationError{Field: "taskId", Message: MsgTaskIDRequired}
	}
	res := s.gw.DeleteTask(ctx, taskID)
	if !res.OK {
		return RejectedError{Message: res.ErrorMessage}
	}
	s.bus.Publish(events.Event{Kind: events.ProjectTasksInvalidated, Scope: strings.TrimSpace(projectID)})
	return nil
}
