// Package devserver is an in-memory implementation of the workspace backend's
// REST surface. It backs `taskdeck devserver` and end-to-end tests.
package devserver

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const DefaultBasePath = "/api/project-0"

type Options struct {
	BasePath string
	// Secret signs session tokens. Empty generates a random one.
	Secret string
	// RequireAuth rejects requests without a valid bearer token (login excepted).
	RequireAuth bool
	TokenTTL    time.Duration
	Seed        Seed
	Logger      zerolog.Logger
}

type Server struct {
	app  *fiber.App
	opts Options
	log  zerolog.Logger

	mu        sync.Mutex
	users     []User
	companies []Company
	projects  []Project
	tasks     []Task
}

func New(opts Options) *Server {
	if strings.TrimSpace(opts.BasePath) == "" {
		opts.BasePath = DefaultBasePath
	}
	if opts.Secret == "" {
		opts.Secret = uuid.NewString()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{
		opts:      opts,
		log:       opts.Logger.With().Str("component", "devserver").Logger(),
		users:     append([]User(nil), opts.Seed.Users...),
		companies: append([]Company(nil), opts.Seed.Companies...),
		projects:  append([]Project(nil), opts.Seed.Projects...),
		tasks:     append([]Task(nil), opts.Seed.Tasks...),
	}
	for i := range s.users {
		u := &s.users[i]
		if u.Password == "" {
			continue
		}
		h, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
		if err != nil {
			s.log.Warn().Err(err).Str("userId", u.ID).Msg("hash seed password")
			continue
		}
		u.PasswordHash, u.Password = string(h), ""
	}
	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"message": err.Error()})
		},
	})
	s.routes()
	return s
}

// App exposes the fiber app (e.g. for app.Test in unit tests).
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Serve runs on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error { return s.app.Listener(ln) }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	api := s.app.Group(s.opts.BasePath, s.logRequest)
	api.Post("/auth/login", s.login)

	api.Get("/auth/users", s.auth, s.listUsers)
	api.Get("/auth/users/:id", s.auth, s.getUser)
	api.Get("/company/:id/projects", s.auth, s.listProjects)
	api.Get("/company/:userId", s.auth, s.listCompanies)
	api.Post("/project", s.auth, s.createProject)
	api.Get("/project/tasks/:projectId", s.auth, s.listTasks)
	api.Post("/task", s.auth, s.createTask)
	api.Delete("/task/:id", s.auth, s.deleteTask)
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug().Str("method", c.Method()).Str("path", c.Path()).
		Str("requestId", c.Get("X-Request-ID")).Int("status", c.Response().StatusCode()).
		Dur("duration", time.Since(start)).Msg("request")
	return err
}

func (s *Server) auth(c *fiber.Ctx) error {
	header := strings.TrimSpace(c.Get("Authorization"))
	if header == "" {
		if s.opts.RequireAuth {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authorization header required"})
		}
		return c.Next()
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "expected: Bearer <token>"})
	}
	userID, err := parseToken(s.opts.Secret, strings.TrimSpace(parts[1]))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
	}
	c.Locals("userId", userID)
	return c.Next()
}
