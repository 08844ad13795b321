package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newCompaniesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Company commands",
	}
	cmd.AddCommand(newCompaniesListCmd(app))
	return cmd
}

func newCompaniesListCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the companies a user belongs to (default: signed-in user)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(userID)
			if id == "" {
				id = sess.UserID
			}
			companies, err := unwrap(gw.ListCompanies(cmd.Context(), id))
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(companies) == 0 {
				return writeOut(cmd, app, companies, "No Companies found")
			}
			return writeOut(cmd, app, companies, "taskdeck projects list --company "+companies[0].ID)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id")
	return cmd
}
