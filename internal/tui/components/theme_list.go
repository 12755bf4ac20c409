package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/oficina/internal/theme"
	"github.com/opencode-ai/oficina/internal/tui/styles"
)

// ThemeList is the state of the theme picker.
type ThemeList struct {
	IDs      []theme.ID
	Cursor   int
	Selected theme.ID // option carrying the "selected" indicator
	Checked  theme.ID // option whose radio control is checked
}

// Highlighted returns the ID under the cursor.
func (l ThemeList) Highlighted() (theme.ID, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.IDs) {
		return "", false
	}
	return l.IDs[l.Cursor], true
}

// Move shifts the cursor by delta, clamped to the list.
func (l *ThemeList) Move(delta int) {
	if len(l.IDs) == 0 {
		return
	}
	l.Cursor += delta
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.IDs) {
		l.Cursor = len(l.IDs) - 1
	}
}

// Swatch renders a two-cell block in color.
func Swatch(color string) string {
	if color == "" {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

// View renders one line per theme: radio, swatches, name, selection marker.
func (l ThemeList) View(styleSet styles.Styles) string {
	lines := make([]string, 0, len(l.IDs))
	for i, id := range l.IDs {
		radio := "( )"
		if id == l.Checked {
			radio = "(•)"
		}
		colors, ok := theme.Lookup(id)
		if !ok {
			colors = theme.PreviewPalette[id]
		}
		name := styleSet.Text.Render(string(id))
		if i == l.Cursor {
			name = styleSet.Focus.Render("› " + string(id))
		} else {
			name = "  " + name
		}
		line := strings.Join([]string{radio, Swatch(colors.Primary) + Swatch(colors.Secondary), name}, " ")
		if theme.PreviewOnly(id) {
			line += " " + styleSet.Muted.Render("(só prévia)")
		}
		if id == l.Selected {
			line += " " + styleSet.Accent.Render("✓")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
