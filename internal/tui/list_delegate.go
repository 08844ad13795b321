package tui

import (
	"fmt"
	"io"
	"strings"

	"taskdeck-cli/internal/avatar"
	"taskdeck-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type companyItem struct{ company model.Company }

func (i companyItem) FilterValue() string { return i.company.Name }
func (i companyItem) Title() string {
	return avatar.ProjectPalette.Badge(i.company.ID, i.company.Name) + " " + i.company.Name
}
func (i companyItem) Description() string { return i.company.Description }

// addCompanyItem is the inert last row of the drawer.
type addCompanyItem struct{}

func (addCompanyItem) FilterValue() string { return "" }
func (addCompanyItem) Title() string       { return "+ Add a Company" }
func (addCompanyItem) Description() string { return "" }

type projectItem struct{ project model.Project }

func (i projectItem) FilterValue() string { return i.project.ProjectName }
func (i projectItem) Title() string {
	mark := "#"
	if i.project.IsPrivate {
		mark = glyphLock()
	}
	return mark + " " + i.project.ProjectName
}
func (i projectItem) Description() string {
	return fmt.Sprintf("%d members", len(i.project.Members))
}

type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	// twoLine renders Description() under the title.
	twoLine bool
}

func newCompactItemDelegate(twoLine bool) compactItemDelegate {
	return compactItemDelegate{
		normal:   lipgloss.NewStyle().Foreground(colorSurfaceFg),
		selected: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
		muted:    styleMuted(),
		twoLine:  twoLine,
	}
}

func (d compactItemDelegate) Height() int {
	if d.twoLine {
		return 2
	}
	return 1
}
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt, desc := "", ""
	if t, ok := item.(list.DefaultItem); ok {
		txt, desc = t.Title(), t.Description()
	} else {
		txt = fmt.Sprint(item)
	}

	fmt.Fprint(w, style.Render(fitLine(" "+txt, contentW)))
	if d.twoLine {
		fmt.Fprint(w, "\n"+d.muted.Render(fitLine("   "+truncateToWidth(desc, contentW-3), contentW)))
	}
}

func fitLine(line string, w int) string {
	lineW := xansi.StringWidth(line)
	if lineW < w {
		return line + strings.Repeat(" ", w-lineW)
	}
	if lineW > w {
		return xansi.Cut(line, 0, w)
	}
	return line
}

// newList builds a list with the chrome turned off; screens render their own
// headers and footers.
func newList(items []list.Item, d list.ItemDelegate) list.Model {
	l := list.New(items, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// ESC is "back" in this app.
	l.KeyMap.Quit.SetKeys()
	l.KeyMap.ForceQuit.SetKeys()
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}
