package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Session is the persisted authentication state. It exists only while Token is non-empty.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func (s Session) Valid() bool { return strings.TrimSpace(s.Token) != "" }

type Company struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SelectedCompany is a Company plus the selection token that distinguishes a fresh
// choice from a replay of an older one.
type SelectedCompany struct {
	Company Company `json:"company"`
	Token   int64   `json:"selectionToken"`
}

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "to do"
	TaskStatusInProgress TaskStatus = "in progress"
	TaskStatusDone       TaskStatus = "done"
)

// NormalizeTaskStatus maps a backend status to one of the known values.
// Missing or unknown statuses default to "to do".
func NormalizeTaskStatus(s string) TaskStatus {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case TaskStatusInProgress:
		return TaskStatusInProgress
	case TaskStatusDone:
		return TaskStatusDone
	default:
		return TaskStatusToDo
	}
}

// UserRef is a roster entry and an assignment target. It is never persisted client-side.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type wireUser struct {
	ID       string `json:"_id"`
	AltID    string `json:"id"`
	FullName string `json:"fullName"`
	UserName string `json:"userName"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UnmarshalJSON accepts either a bare id string or a user object from the backend.
func (u *UserRef) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*u = UserRef{ID: strings.TrimSpace(id), Name: "User", Role: "user"}
		return nil
	}
	var w wireUser
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*u = userFromWire(w)
	return nil
}

func userFromWire(w wireUser) UserRef {
	id := strings.TrimSpace(w.ID)
	if id == "" {
		id = strings.TrimSpace(w.AltID)
	}
	name := firstNonEmpty(w.FullName, w.UserName, w.Name, w.Email)
	if name == "" {
		name = "User"
	}
	role := strings.TrimSpace(w.Role)
	if role == "" {
		role = "user"
	}
	return UserRef{
		ID:    id,
		Name:  name,
		Email: strings.TrimSpace(w.Email),
		Role:  role,
	}
}

type Project struct {
	ID                 string    `json:"_id"`
	ProjectName        string    `json:"projectName"`
	ProjectDescription string    `json:"projectDescription"`
	CompanyID          string    `json:"companyId"`
	Members            []UserRef `json:"members"`
	CreatedAt          time.Time `json:"createdAt"`
	IsPrivate          bool      `json:"isPrivate,omitempty"`
}

type wireProject struct {
	ID                 string          `json:"_id"`
	ProjectName        string          `json:"projectName"`
	ProjectDescription string          `json:"projectDescription"`
	CompanyID          json.RawMessage `json:"companyId"`
	Members            []UserRef       `json:"members"`
	CreatedAt          string          `json:"createdAt"`
	IsPrivate          bool            `json:"isPrivate"`
}

// UnmarshalJSON tolerates populated company references, duplicate members and
// loosely formatted timestamps.
func (p *Project) UnmarshalJSON(b []byte) error {
	var w wireProject
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = Project{
		ID:                 strings.TrimSpace(w.ID),
		ProjectName:        w.ProjectName,
		ProjectDescription: w.ProjectDescription,
		CompanyID:          refID(w.CompanyID),
		Members:            DedupeUsers(w.Members),
		CreatedAt:          parseTimeLoose(w.CreatedAt),
		IsPrivate:          w.IsPrivate,
	}
	return nil
}

type Task struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   string     `json:"projectId"`
	AssignedTo  *UserRef   `json:"assignedTo,omitempty"`
	ETA         time.Time  `json:"eta"`
	Status      TaskStatus `json:"status"`
}

type wireTask struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ProjectID   json.RawMessage `json:"projectId"`
	AssignedTo  json.RawMessage `json:"assignedTo"`
	ETA         string          `json:"eta"`
	Status      string          `json:"status"`
}

func (t *Task) UnmarshalJSON(b []byte) error {
	var w wireTask
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := Task{
		ID:          strings.TrimSpace(w.ID),
		Title:       w.Title,
		Description: w.Description,
		ProjectID:   refID(w.ProjectID),
		ETA:         parseTimeLoose(w.ETA),
		Status:      NormalizeTaskStatus(w.Status),
	}
	if raw := strings.TrimSpace(string(w.AssignedTo)); raw != "" && raw != "null" && raw != `""` {
		var u UserRef
		if err := json.Unmarshal(w.AssignedTo, &u); err == nil && u.ID != "" {
			out.AssignedTo = &u
		}
	}
	*t = out
	return nil
}

// DedupeUsers keeps the first occurrence of each id, preserving order.
func DedupeUsers(in []UserRef) []UserRef {
	out := make([]UserRef, 0, len(in))
	seen := map[string]bool{}
	for _, u := range in {
		if u.ID == "" || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		out = append(out, u)
	}
	return out
}

// refID extracts an id from either "id" or {"_id": "id"}.
func refID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(firstNonEmpty(obj.ID, obj.AltID))
	}
	return ""
}

func parseTimeLoose(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
