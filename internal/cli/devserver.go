package cli

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskdeck-cli/internal/devserver"

	"github.com/spf13/cobra"
)

func newDevserverCmd(app *App) *cobra.Command {
	var addr string
	var demo bool
	var requireAuth bool
	var secret string
	var tokenTTL time.Duration

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory workspace backend for local use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := devserver.Options{
				BasePath:    app.cfg.Backend.BasePath,
				Secret:      secret,
				RequireAuth: requireAuth,
				TokenTTL:    tokenTTL,
				Logger:      app.log.Zerolog(),
			}
			if demo {
				opts.Seed = devserver.DemoSeed()
			}
			srv := devserver.New(opts)

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Serve(ln) }()
			app.log.Info().Str("addr", ln.Addr().String()).Str("basePath", opts.BasePath).Bool("demo", demo).Msg("devserver listening")

			select {
			case err := <-errc:
				if err != nil && !errors.Is(err, net.ErrClosed) {
					return writeErr(cmd, err)
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Msg("devserver stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().BoolVar(&demo, "demo", false, "Seed demo users, companies, projects and tasks (password: \"password\")")
	cmd.Flags().BoolVar(&requireAuth, "require-auth", false, "Reject requests without a bearer token")
	cmd.Flags().StringVar(&secret, "secret", "", "Token signing secret (default random)")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "Session token lifetime")
	return cmd
}
