package tui

import (
	"strings"

	"taskdeck-cli/internal/avatar"
	"taskdeck-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	cardNormal = lipgloss.NewStyle().
			Padding(0, 1, 0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCardBorder).
			Foreground(colorSurfaceFg)
	cardSelected = cardNormal.BorderForeground(colorAccent)
)

// renderTaskCard renders one task as a bordered card of totalW columns.
func renderTaskCard(t model.Task, totalW int, selected bool) string {
	card := cardNormal
	if selected {
		card = cardSelected
	}
	innerW := totalW - card.GetHorizontalFrameSize()
	if innerW < 8 {
		innerW = 8
	}
	card = card.Width(innerW)

	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "(untitled task)"
	}
	status := statusStyle(t.Status).Render(string(t.Status))
	statusW := lipgloss.Width(status)
	titleLine := styleTitle().Render(truncateToWidth(title, innerW-statusW-2))
	gap := innerW - lipgloss.Width(titleLine) - statusW
	if gap < 1 {
		gap = 1
	}
	lines := []string{titleLine + strings.Repeat(" ", gap) + status}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		lines = append(lines, styleMuted().Render(truncateToWidth(desc, innerW)))
	}

	assignee := styleMuted().Render("Unassigned")
	if t.AssignedTo != nil {
		a := *t.AssignedTo
		assignee = avatar.TaskPalette.Badge(a.ID, a.Name) + " " + a.Name
	}
	lines = append(lines, "ETA: "+formatETA(t.ETA)+"   "+assignee)

	for i := range lines {
		lines[i] = padOrCutANSI(lines[i], innerW)
	}
	return card.Render(strings.Join(lines, "\n"))
}

// renderMemberRow renders a team member with an avatar badge colored from pal.
func renderMemberRow(u model.UserRef, pal avatar.Palette, w int) string {
	line := pal.Badge(u.ID, u.Name) + " " + u.Name
	if u.Email != "" {
		line += styleMuted().Render("  " + u.Email)
	}
	return truncateToWidthANSI(line, w)
}
