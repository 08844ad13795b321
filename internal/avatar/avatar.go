// Package avatar maps opaque identifiers to stable avatar colors and initials.
package avatar

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/charmbracelet/lipgloss"
)

type Palette []lipgloss.Color

// ProjectPalette colors project-member avatars.
var ProjectPalette = Palette{
	"#6C5CE7",
	"#E17055",
	"#00B894",
	"#0984E3",
	"#D63031",
	"#E84393",
	"#2ECC71",
}

// TaskPalette colors task-member avatars. It is sized independently of ProjectPalette.
var TaskPalette = Palette{
	"#E91E63",
	"#4CAF50",
	"#009688",
	"#3F51B5",
	"#F44336",
	"#2196F3",
	"#8BC34A",
	"#FF5722",
}

// Hash is a rolling hash over the UTF-16 code units of id:
// hash = (hash*31 + unit) mod 2^32, read as a signed 32-bit value.
func Hash(id string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(id)) {
		h = h*31 + int32(u)
	}
	return h
}

// Index returns the palette slot for id in a palette of n colors.
// Empty ids and empty palettes map to slot 0.
func Index(id string, n int) int {
	if id == "" || n <= 0 {
		return 0
	}
	h := int64(Hash(id))
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}

// ColorFor returns the palette color for id. It is deterministic across runs.
func (p Palette) ColorFor(id string) lipgloss.Color {
	if len(p) == 0 {
		return lipgloss.Color("")
	}
	return p[Index(id, len(p))]
}

// Initial returns the upper-cased first letter of name, or "?" when there is none.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

// Badge renders a one-cell avatar: the initial on the id's palette color.
func (p Palette) Badge(id, name string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(p.ColorFor(id)).
		Padding(0, 1).
		Render(Initial(name))
}
