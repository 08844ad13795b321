package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskdeck-cli/internal/model"
)

func fixture() (model.Project, []model.Task) {
	created := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	bo := model.UserRef{ID: "u-bo", Name: "bo", Email: "bo@acme.test"}
	p := model.Project{
		ID:                 "p-launch",
		ProjectName:        "Launch",
		ProjectDescription: "Ship the **Q3** launch.",
		CompanyID:          "c-acme",
		Members:            []model.UserRef{{ID: "u-ana", Name: "Ana Torres"}, bo},
		CreatedAt:          created,
	}
	tasks := []model.Task{
		{ID: "t-copy", Title: "Write copy", ProjectID: "p-launch", AssignedTo: &bo, ETA: created.Add(72 * time.Hour), Status: model.TaskStatusInProgress},
		{ID: "t-ship", Title: "Ship", ProjectID: "p-launch", Status: "weird"},
	}
	return p, tasks
}

func TestRenderProjectMarkdown_GroupsTasksByStatus(t *testing.T) {
	t.Parallel()

	p, tasks := fixture()
	md := RenderProjectMarkdown(p, tasks)

	for _, want := range []string{
		"# Launch",
		"- Created: 2025-01-06 09:00",
		"Ship the **Q3** launch.",
		"## Team Members (2)",
		"- bo <bo@acme.test>",
		"### To do\n\n- [Ship](tasks/t-ship.md) (ETA Not set, Unassigned)",
		"### In progress\n\n- [Write copy](tasks/t-copy.md) (ETA 2025-01-09 09:00, bo <bo@acme.test>)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "### Done") {
		t.Fatalf("empty status groups should be omitted:\n%s", md)
	}
}

func TestRenderProjectMarkdown_NoTasks(t *testing.T) {
	t.Parallel()

	p, _ := fixture()
	md := RenderProjectMarkdown(p, nil)
	if !strings.Contains(md, "## Tasks (0)\n\n_No tasks yet_") {
		t.Fatalf("missing empty task note:\n%s", md)
	}
}

func TestWriteProject_WritesPagesAndRefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p, tasks := fixture()

	res, err := WriteProject(p, tasks, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteProject: %v", err)
	}
	if len(res.Written) != 3 {
		t.Fatalf("expected index + 2 task pages, got %v", res.Written)
	}
	b, err := os.ReadFile(filepath.Join(dir, "projects", "p-launch", "tasks", "t-copy.md"))
	if err != nil {
		t.Fatalf("read task page: %v", err)
	}
	if !strings.Contains(string(b), "- Project: Launch (p-launch)") || !strings.Contains(string(b), "- Status: in progress") {
		t.Fatalf("unexpected task page:\n%s", b)
	}

	if _, err := WriteProject(p, tasks, dir, WriteOptions{}); err == nil {
		t.Fatalf("expected error writing over existing files")
	}
	if _, err := WriteProject(p, tasks, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestWriteProject_RequiresDir(t *testing.T) {
	t.Parallel()

	p, _ := fixture()
	if _, err := WriteProject(p, nil, " ", WriteOptions{}); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
