package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type etaField int

const (
	etaYear etaField = iota
	etaMonth
	etaDay
	etaHour
	etaMinute
	etaFieldCount
)

// etaEditor edits a local date and time as five numeric fields. Up/down bump the
// focused field with calendar carry; typing replaces digits.
type etaEditor struct {
	inputs [etaFieldCount]textinput.Model
	focus  etaField
	active bool
}

func newETAEditor(t time.Time) etaEditor {
	var e etaEditor
	widths := [etaFieldCount]int{4, 2, 2, 2, 2}
	for i := range e.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = widths[i]
		in.Width = widths[i]
		in.Cursor.SetMode(cursor.CursorStatic)
		e.inputs[i] = in
	}
	e.set(t)
	return e
}

func (e *etaEditor) set(t time.Time) {
	t = t.Local()
	e.inputs[etaYear].SetValue(fmtYear(t.Year()))
	e.inputs[etaMonth].SetValue(fmt2(int(t.Month())))
	e.inputs[etaDay].SetValue(fmt2(t.Day()))
	e.inputs[etaHour].SetValue(fmt2(t.Hour()))
	e.inputs[etaMinute].SetValue(fmt2(t.Minute()))
}

// Value returns the edited instant. Out-of-range parts are clamped.
func (e etaEditor) Value() time.Time {
	now := time.Now()
	y := parseIntDefault(e.inputs[etaYear].Value(), now.Year())
	mo := clampInt(parseIntDefault(e.inputs[etaMonth].Value(), int(now.Month())), 1, 12)
	d := clampDay(y, time.Month(mo), parseIntDefault(e.inputs[etaDay].Value(), now.Day()))
	h := clampInt(parseIntDefault(e.inputs[etaHour].Value(), 0), 0, 23)
	mi := clampInt(parseIntDefault(e.inputs[etaMinute].Value(), 0), 0, 59)
	return time.Date(y, time.Month(mo), d, h, mi, 0, 0, time.Local)
}

func (e *etaEditor) Focus() tea.Cmd {
	e.active = true
	return e.inputs[e.focus].Focus()
}

func (e *etaEditor) Blur() {
	e.active = false
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
}

func (e *etaEditor) move(delta int) tea.Cmd {
	e.inputs[e.focus].Blur()
	next := int(e.focus) + delta
	if next < 0 {
		next = 0
	}
	if next >= int(etaFieldCount) {
		next = int(etaFieldCount) - 1
	}
	e.focus = etaField(next)
	return e.inputs[e.focus].Focus()
}

// bump adds delta to the focused field, carrying into neighbouring fields.
func (e *etaEditor) bump(delta int) {
	t := e.Value()
	switch e.focus {
	case etaYear:
		t = t.AddDate(delta, 0, 0)
	case etaMonth:
		t = t.AddDate(0, delta, 0)
	case etaDay:
		t = t.AddDate(0, 0, delta)
	case etaHour:
		t = t.Add(time.Duration(delta) * time.Hour)
	case etaMinute:
		t = t.Add(time.Duration(delta) * time.Minute)
	}
	e.set(t)
}

func (e *etaEditor) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "shift+tab":
		return e.move(-1)
	case "right", "tab", ":", "-":
		return e.move(1)
	case "up", "+":
		e.bump(1)
		return nil
	case "down":
		e.bump(-1)
		return nil
	case "t":
		e.set(time.Now())
		return nil
	}
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return nil
			}
		}
	}
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return cmd
}

func (e etaEditor) View() string {
	field := func(f etaField) string {
		st := lipgloss.NewStyle().Background(colorInputBg)
		if e.active && f == e.focus {
			st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		}
		v := e.inputs[f].Value()
		if w := e.inputs[f].Width; len(v) < w {
			v += strings.Repeat(" ", w-len(v))
		}
		return st.Render(v)
	}
	return field(etaYear) + "-" + field(etaMonth) + "-" + field(etaDay) + "  " + field(etaHour) + ":" + field(etaMinute)
}

func formatETA(t time.Time) string {
	if t.IsZero() {
		return "Not set"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006")
}

func fmtYear(y int) string { return fmt.Sprintf("%04d", y) }
func fmt2(n int) string    { return fmt.Sprintf("%02d", n) }

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func daysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(y int, m time.Month, d int) int {
	return clampInt(d, 1, daysInMonth(y, m))
}
