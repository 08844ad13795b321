package cli

import (
	"strings"

	"taskdeck-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write ~/.taskdeck/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigGetCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

// resolved is the effective configuration after file, env and flags.
func (app *App) resolved() map[string]any {
	c := app.cfg
	return map[string]any{
		"backend.url":      c.Backend.URL,
		"backend.basePath": c.Backend.BasePath,
		"backend.timeout":  c.Backend.Timeout.String(),
		"log.level":        c.Log.Level,
		"log.path":         c.Log.Path,
		"refresh.maxAge":   c.Refresh.MaxAge.String(),
		"tui.glyphs":       c.TUI.Glyphs,
		"dir":              c.Dir,
	}
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, app.resolved())
		},
	}
}

func newConfigGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show one effective setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			for k, v := range app.resolved() {
				if strings.EqualFold(k, key) {
					return writeOut(cmd, app, map[string]any{k: v})
				}
			}
			return writeErr(cmd, errNotFound("config key", key))
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a setting (backend.url, backend.basePath, backend.timeout, log.level, log.path, refresh.maxAge, tui.glyphs)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.SetConfigValue(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{strings.TrimSpace(args[0]): strings.TrimSpace(args[1])})
		},
	}
}
