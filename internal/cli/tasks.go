package cli

import (
	"strings"
	"time"

	"taskdeck-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectID) == "" {
				return writeErr(cmd, usageError{msg: "--project is required"})
			}
			sess, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks, err := unwrap(gw.ListTasksForProject(cmd.Context(), projectID, sess.UserID))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, tasks)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	return cmd
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var projectID string
	var title string
	var description string
	var assignees []string
	var eta string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task in a project",
		Long: strings.TrimSpace(`
Create a task. Only the first --assignee is sent to the backend; when more
are given the result carries a note saying so.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseETA(eta, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			_, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			svc := mutate.New(gw, nil, nil, app.log.Zerolog())
			res, err := svc.CreateTask(cmd.Context(), mutate.CreateTaskInput{
				Title:       title,
				Description: description,
				ProjectID:   projectID,
				Members:     memberRefs(assignees),
				ETA:         at,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			out := map[string]any{"task": res.Task, "assignedTo": res.AssignedTo}
			if res.Note != "" {
				out["note"] = res.Note
				return writeOut(cmd, app, out, res.Note)
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "Assignee user id (repeatable; only the first is sent)")
	cmd.Flags().StringVar(&eta, "eta", "", "ETA: YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339 (default now)")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gw, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			svc := mutate.New(gw, nil, nil, app.log.Zerolog())
			if err := svc.DeleteTask(cmd.Context(), projectID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": strings.TrimSpace(args[0])})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (optional)")
	return cmd
}
