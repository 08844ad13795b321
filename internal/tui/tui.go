package tui

import (
	"context"
	"time"

	"taskdeck-cli/internal/gateway"
	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/mutate"
	"taskdeck-cli/internal/nav"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Backend is every backend call the screens make.
type Backend interface {
	mutate.Gateway
	ListUsers(ctx context.Context) gateway.Result[[]model.UserRef]
	GetUser(ctx context.Context, userID string) gateway.Result[model.UserRef]
	ListCompanies(ctx context.Context, userID string) gateway.Result[[]model.Company]
	ListProjectsForCompany(ctx context.Context, companyID string) gateway.Result[[]model.Project]
	ListTasksForProject(ctx context.Context, projectID, userID string) gateway.Result[[]model.Task]
}

// SessionStore is the persisted session as the TUI uses it.
type SessionStore interface {
	nav.SessionLoader
	mutate.Sessions
}

type Options struct {
	// Connect returns a backend client carrying token ("" before login).
	Connect  func(token string) Backend
	Sessions SessionStore
	Log      zerolog.Logger

	// RefreshMaxAge is how long list screens reuse data across focus changes.
	RefreshMaxAge time.Duration
	// RequestTimeout bounds each backend call. Zero means no timeout.
	RequestTimeout time.Duration

	// LastEmail pre-fills the login form; RememberEmail is told about successful logins.
	LastEmail     string
	RememberEmail func(email string)

	// Glyphs is "unicode" or "ascii".
	Glyphs string
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	m.shutdown()
	return err
}
