package cli

import (
	"context"

	"taskdeck-cli/internal/config"
	"taskdeck-cli/internal/gateway"
	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/mutate"
	"taskdeck-cli/internal/store"

	"github.com/spf13/cobra"
)

// session returns the stored session and a client carrying its token.
func (app *App) session(ctx context.Context) (model.Session, *gateway.Client, error) {
	sess, ok := app.sessions().Load(ctx)
	if !ok || !sess.Valid() {
		return model.Session{}, nil, errNotLoggedIn
	}
	return sess, app.client(sess.Token), nil
}

func newLoginCmd(app *App) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session (shared with the TUI)",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := mutate.New(app.client(""), app.sessions(), nil, app.log.Zerolog())
			sess, err := svc.Login(cmd.Context(), email, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SetConfigValue("lastEmail", email); err != nil {
				app.log.Warn().Err(err).Msg("remember email")
			}
			app.log.Info().Str("userId", sess.UserID).Msg("logged in")
			return writeOut(cmd, app, map[string]any{"userId": sess.UserID, "email": email}, "taskdeck companies list")
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", envOr(config.EnvPrefix+"_PASSWORD", ""), "Account password (or "+config.EnvPrefix+"_PASSWORD)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := mutate.New(app.client(""), app.sessions(), nil, app.log.Zerolog())
			if err := svc.Logout(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"loggedOut": true})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			u, err := unwrap(gw.GetUser(cmd.Context(), sess.UserID))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, u)
		},
	}
}
