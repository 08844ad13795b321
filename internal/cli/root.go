package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"taskdeck-cli/internal/config"
	"taskdeck-cli/internal/format"
	"taskdeck-cli/internal/gateway"
	"taskdeck-cli/internal/logging"
	"taskdeck-cli/internal/store"
	"taskdeck-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Format string
	Pretty bool

	cfg *config.Config
	log *logging.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Taskdeck workspace client (TUI + CLI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskdeck

  # Sign in once; the session is shared with the TUI
  taskdeck login --email ana@acme.test --password password

  # Scriptable commands
  taskdeck companies list
  taskdeck projects list --company c-acme

  # Local backend with demo data
  taskdeck devserver --demo
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg

		// The TUI owns the terminal, so it only logs to a file.
		lc := logging.Config{Level: cfg.Log.Level, Format: "console", Path: cfg.Log.Path, Out: cmd.ErrOrStderr()}
		if cmd == cmd.Root() && cfg.Log.Path == "" {
			app.log = logging.Nop()
			return nil
		}
		l, err := logging.New(lc)
		if err != nil {
			return writeErr(cmd, fmt.Errorf("open log: %w", err))
		}
		app.log = l
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.log.Close()
	}

	pf := cmd.PersistentFlags()
	pf.String("backend", "", "Backend URL (default "+config.DefaultBackendURL+")")
	pf.String("base-path", "", "API base path (default "+config.DefaultBasePath+")")
	pf.String("timeout", "", "Per-request timeout, e.g. 15s (default none)")
	pf.String("log-level", "", "Log level (trace|debug|info|warn|error)")
	pf.String("log-file", "", "Append JSON logs to this file")
	pf.BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON/EDN output")
	pf.StringVar(&app.Format, "format", envOr(config.EnvPrefix+"_FORMAT", "json"), "Output format (json|edn|text)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newCompaniesCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDevserverCmd(app))

	return cmd
}

func runTUI(app *App) error {
	cfg := app.cfg
	gc, err := store.LoadConfig()
	if err != nil {
		app.log.Warn().Err(err).Msg("read config")
		gc = &store.GlobalConfig{}
	}
	log := app.log.Component("tui")
	return tui.Run(tui.Options{
		Connect: func(token string) tui.Backend {
			return app.client(token)
		},
		Sessions:       app.sessions(),
		Log:            log,
		RefreshMaxAge:  cfg.Refresh.MaxAge,
		RequestTimeout: cfg.Backend.Timeout,
		LastEmail:      gc.LastEmail,
		RememberEmail: func(email string) {
			if err := store.SetConfigValue("lastEmail", email); err != nil {
				log.Warn().Err(err).Msg("remember email")
			}
		},
		Glyphs: cfg.TUI.Glyphs,
	})
}

// client builds a gateway client for the configured backend carrying token.
func (app *App) client(token string) *gateway.Client {
	return gateway.New(app.cfg.Backend.BaseURL(),
		gateway.WithTimeout(app.cfg.Backend.Timeout),
		gateway.WithToken(token),
		gateway.WithLogger(app.log.Zerolog()),
	)
}

func (app *App) sessions() *store.SessionStore {
	return store.Store{Dir: app.cfg.Dir}.Sessions(app.log.Zerolog())
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes data in the JSON envelope shape ({"data": ..., "_hints": [...]}).
// The text format prints data alone.
func writeOut(cmd *cobra.Command, app *App, data any, hints ...string) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), "text") {
		return format.Write(cmd.OutOrStdout(), data, app.Format, app.Pretty)
	}
	env := map[string]any{"data": data}
	if len(hints) > 0 {
		env["_hints"] = hints
	}
	return format.Write(cmd.OutOrStdout(), env, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return reportedError{err}
}

// reportedError marks an error writeErr already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err.Error())
		}
		return 1
	}
	return 0
}
