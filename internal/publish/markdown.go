// Package publish renders a project and its tasks as markdown files.
package publish

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"taskdeck-cli/internal/model"
)

const dateLayout = "2006-01-02 15:04"

// RenderProjectMarkdown renders the project page: meta, description, members and a
// task index grouped by status.
func RenderProjectMarkdown(p model.Project, tasks []model.Task) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(p.ProjectName))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + p.ID)
	if p.CompanyID != "" {
		writeLn("- Company: " + p.CompanyID)
	}
	if !p.CreatedAt.IsZero() {
		writeLn("- Created: " + p.CreatedAt.UTC().Format(dateLayout))
	}
	if p.IsPrivate {
		writeLn("- Private: yes")
	}
	writeLn("")

	if d := strings.TrimSpace(p.ProjectDescription); d != "" {
		writeLn("## Description")
		writeLn("")
		writeLn(d)
		writeLn("")
	}

	writeLn(fmt.Sprintf("## Team Members (%d)", len(p.Members)))
	writeLn("")
	if len(p.Members) == 0 {
		writeLn("_None_")
	}
	for _, u := range p.Members {
		writeLn("- " + userLabel(u))
	}
	writeLn("")

	writeLn(fmt.Sprintf("## Tasks (%d)", len(tasks)))
	writeLn("")
	if len(tasks) == 0 {
		writeLn("_No tasks yet_")
		return buf.String()
	}
	for _, st := range []model.TaskStatus{model.TaskStatusToDo, model.TaskStatusInProgress, model.TaskStatusDone} {
		group := tasksWithStatus(tasks, st)
		if len(group) == 0 {
			continue
		}
		writeLn("### " + strings.ToUpper(string(st[:1])) + string(st[1:]))
		writeLn("")
		for _, t := range group {
			writeLn(fmt.Sprintf("- [%s](tasks/%s.md) (ETA %s, %s)", strings.TrimSpace(t.Title), t.ID, etaLabel(t.ETA), assigneeLabel(t)))
		}
		writeLn("")
	}
	return buf.String()
}

// RenderTaskMarkdown renders one task page.
func RenderTaskMarkdown(p model.Project, t model.Task) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(t.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + t.ID)
	writeLn("- Project: " + strings.TrimSpace(p.ProjectName) + " (" + p.ID + ")")
	writeLn("- Status: " + string(model.NormalizeTaskStatus(string(t.Status))))
	writeLn("- ETA: " + etaLabel(t.ETA))
	writeLn("- Assignee: " + assigneeLabel(t))
	writeLn("")
	if d := strings.TrimSpace(t.Description); d != "" {
		writeLn("## Description")
		writeLn("")
		writeLn(d)
		writeLn("")
	}
	return buf.String()
}

// tasksWithStatus keeps backend order within a status, falling back to ETA.
func tasksWithStatus(tasks []model.Task, st model.TaskStatus) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if model.NormalizeTaskStatus(string(t.Status)) == st {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ETA, out[j].ETA
		if a.IsZero() || b.IsZero() {
			return false
		}
		return a.Before(b)
	})
	return out
}

func etaLabel(t time.Time) string {
	if t.IsZero() {
		return "Not set"
	}
	return t.UTC().Format(dateLayout)
}

func assigneeLabel(t model.Task) string {
	if t.AssignedTo == nil {
		return "Unassigned"
	}
	return userLabel(*t.AssignedTo)
}

func userLabel(u model.UserRef) string {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = u.ID
	}
	if u.Email != "" && u.Email != name {
		return name + " <" + u.Email + ">"
	}
	return name
}
