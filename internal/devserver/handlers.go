package devserver

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	ident := strings.ToLower(strings.TrimSpace(in.Email))

	s.mu.Lock()
	var found *User
	for i := range s.users {
		u := &s.users[i]
		if strings.ToLower(u.Email) == ident || (u.UserName != "" && strings.ToLower(u.UserName) == ident) {
			found = u
			break
		}
	}
	var user User
	if found != nil {
		user = *found
	}
	s.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}
	token, err := generateToken(s.opts.Secret, user.ID, user.Role, s.opts.TokenTTL)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token, "data": user})
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	s.mu.Lock()
	users := append([]User(nil), s.users...)
	s.mu.Unlock()
	return c.JSON(fiber.Map{"users": users})
}

func (s *Server) getUser(c *fiber.Ctx) error {
	id := c.Params("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.userByID(id); ok {
		return c.JSON(fiber.Map{"user": u})
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
}

func (s *Server) listCompanies(c *fiber.Ctx) error {
	userID := c.Params("userId")
	s.mu.Lock()
	out := []Company{}
	for _, co := range s.companies {
		for _, m := range co.MemberIDs {
			if m == userID {
				out = append(out, co)
				break
			}
		}
	}
	s.mu.Unlock()
	return c.JSON(fiber.Map{"data": out})
}

// projectView populates member ids with user objects, as the real backend does.
type projectView struct {
	Project
	Members []any `json:"members"`
}

func (s *Server) viewProject(p Project) projectView {
	members := make([]any, 0, len(p.Members))
	for _, id := range p.Members {
		if u, ok := s.userByID(id); ok {
			members = append(members, u)
		} else {
			members = append(members, id)
		}
	}
	return projectView{Project: p, Members: members}
}

func (s *Server) listProjects(c *fiber.Ctx) error {
	companyID := c.Params("id")
	s.mu.Lock()
	out := []projectView{}
	for _, p := range s.projects {
		if p.CompanyID == companyID {
			out = append(out, s.viewProject(p))
		}
	}
	s.mu.Unlock()
	return c.JSON(fiber.Map{"data": out})
}

type createProjectRequest struct {
	ProjectName        string   `json:"projectName"`
	ProjectDescription string   `json:"projectDescription"`
	CompanyID          string   `json:"companyId"`
	Members            []string `json:"members"`
	UserID             string   `json:"userId"`
}

func (s *Server) createProject(c *fiber.Ctx) error {
	var in createProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	if strings.TrimSpace(in.ProjectName) == "" || strings.TrimSpace(in.CompanyID) == "" || len(in.Members) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "projectName, companyId and members are required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.companyExists(in.CompanyID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Company not found"})
	}
	p := Project{
		ID:                 uuid.NewString(),
		ProjectName:        in.ProjectName,
		ProjectDescription: in.ProjectDescription,
		CompanyID:          in.CompanyID,
		Members:            append([]string(nil), in.Members...),
		CreatedBy:          in.UserID,
		CreatedAt:          time.Now().UTC(),
	}
	s.projects = append(s.projects, p)
	return c.Status(fiber.StatusCreated).JSON(s.viewProject(p))
}

type taskView struct {
	Task
	AssignedTo any `json:"assignedTo"`
}

func (s *Server) viewTask(t Task) taskView {
	v := taskView{Task: t}
	if t.AssignedTo != "" {
		if u, ok := s.userByID(t.AssignedTo); ok {
			v.AssignedTo = u
		} else {
			v.AssignedTo = t.AssignedTo
		}
	}
	return v
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	projectID := c.Params("projectId")
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.projectExists(projectID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Project not found"})
	}
	out := []taskView{}
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, s.viewTask(t))
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": out})
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   string `json:"projectId"`
	AssignedTo  string `json:"assignedTo"`
	ETA         string `json:"eta"`
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var in createTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.ProjectID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "title and projectId are required"})
	}
	eta, err := time.Parse(time.RFC3339Nano, in.ETA)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "eta must be an ISO-8601 timestamp"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.projectExists(in.ProjectID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Project not found"})
	}
	t := Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
		ETA:         eta.UTC(),
	}
	s.tasks = append(s.tasks, t)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": s.viewTask(t)})
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	id := c.Params("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return c.JSON(fiber.Map{"success": true})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Task not found"})
}

func (s *Server) userByID(id string) (User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (s *Server) companyExists(id string) bool {
	for _, c := range s.companies {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Server) projectExists(id string) bool {
	for _, p := range s.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Projects returns a copy of the stored projects.
func (s *Server) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Project(nil), s.projects...)
}

// Tasks returns a copy of the stored tasks.
func (s *Server) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}
