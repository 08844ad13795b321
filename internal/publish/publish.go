package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"taskdeck-cli/internal/model"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteProject writes <toDir>/projects/<id>/index.md plus one page per task under
// tasks/. It stops on the first error.
func WriteProject(p model.Project, tasks []model.Task, toDir string, opt WriteOptions) (WriteResult, error) {
	if strings.TrimSpace(p.ID) == "" {
		return WriteResult{}, errors.New("missing project id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	projectDir := filepath.Join(toDir, "projects", safeName(p.ID))
	tasksDir := filepath.Join(projectDir, "tasks")
	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(projectDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderProjectMarkdown(p, tasks)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	written := []string{indexPath}
	for _, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			continue
		}
		path := filepath.Join(tasksDir, safeName(t.ID)+".md")
		if err := writeFile(path, []byte(RenderTaskMarkdown(p, t)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, path)
	}
	return WriteResult{Written: written}, nil
}

// safeName keeps backend ids from escaping the output dir.
func safeName(id string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(strings.TrimSpace(id))
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
