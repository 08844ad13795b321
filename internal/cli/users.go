package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User roster commands",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersShowCmd(app))
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users (the member picker roster)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			users, err := unwrap(gw.ListUsers(cmd.Context()))
			if err != nil {
				return writeErr(cmd, err)
			}
			if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
				out := users[:0]
				for _, u := range users {
					if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
						out = append(out, u)
					}
				}
				users = out
			}
			return writeOut(cmd, app, users)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Only users whose name or email contains this (case-insensitive)")
	return cmd
}

func newUsersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			u, err := unwrap(gw.GetUser(cmd.Context(), args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, u)
		},
	}
}
