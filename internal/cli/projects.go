package cli

import (
	"fmt"
	"strings"

	"taskdeck-cli/internal/model"
	"taskdeck-cli/internal/mutate"
	"taskdeck-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsPublishCmd(app))
	return cmd
}

// memberRefs turns --member ids into picker-style selections, dropping blanks.
func memberRefs(ids []string) []model.UserRef {
	out := make([]model.UserRef, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, model.UserRef{ID: id})
		}
	}
	return out
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var companyID string
	var name string
	var description string
	var members []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project in a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			in := mutate.CreateProjectInput{
				Name:        name,
				Description: description,
				CompanyID:   companyID,
				Members:     memberRefs(members),
				UserID:      sess.UserID,
			}
			svc := mutate.New(gw, nil, nil, app.log.Zerolog())
			p, err := svc.CreateProject(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, p, "taskdeck tasks create --project "+p.ID+" --title <title>")
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company id")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description (markdown)")
	cmd.Flags().StringSliceVar(&members, "member", nil, "Member user id (repeatable, order kept)")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var companyID string
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a company's projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(companyID) == "" {
				return writeErr(cmd, usageError{msg: "--company is required"})
			}
			_, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			projects, err := unwrap(gw.ListProjectsForCompany(cmd.Context(), companyID))
			if err != nil {
				return writeErr(cmd, err)
			}
			if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
				out := projects[:0]
				for _, p := range projects {
					if strings.Contains(strings.ToLower(p.ProjectName), q) {
						out = append(out, p)
					}
				}
				projects = out
			}
			return writeOut(cmd, app, projects)
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company id")
	cmd.Flags().StringVar(&query, "query", "", "Only projects whose name contains this (case-insensitive)")
	return cmd
}

func newProjectsPublishCmd(app *App) *cobra.Command {
	var companyID string
	var projectID string
	var toDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render a project and its tasks as markdown (stdout, or files with --to)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(companyID) == "" || strings.TrimSpace(projectID) == "" {
				return writeErr(cmd, usageError{msg: "--company and --project are required"})
			}
			sess, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			projects, err := unwrap(gw.ListProjectsForCompany(cmd.Context(), companyID))
			if err != nil {
				return writeErr(cmd, err)
			}
			var p model.Project
			found := false
			for _, it := range projects {
				if it.ID == strings.TrimSpace(projectID) {
					p, found = it, true
					break
				}
			}
			if !found {
				return writeErr(cmd, errNotFound("project", projectID))
			}
			tasks, err := unwrap(gw.ListTasksForProject(cmd.Context(), p.ID, sess.UserID))
			if err != nil {
				return writeErr(cmd, err)
			}

			if strings.TrimSpace(toDir) == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), publish.RenderProjectMarkdown(p, tasks))
				return err
			}
			res, err := publish.WriteProject(p, tasks, toDir, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company id")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&toDir, "to", "", "Output dir (default: print the project page)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	return cmd
}
