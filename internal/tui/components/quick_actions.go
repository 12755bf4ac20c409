package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/oficina/internal/tui/styles"
)

// QuickAction represents a keyboard-triggered action.
type QuickAction struct {
	Key     string // Keyboard key (e.g., "a", "R")
	Label   string // Display label (e.g., "Agendamentos")
	Enabled bool   // Whether the action is available
}

// RenderQuickActionBar renders a horizontal bar of available quick actions.
// Format: "a:Agendamentos  l:Logs  t:Temporários"
func RenderQuickActionBar(styleSet styles.Styles, actions []QuickAction) string {
	if len(actions) == 0 {
		return ""
	}

	var parts []string
	for _, action := range actions {
		if !action.Enabled {
			continue
		}
		keyStyle := styleSet.Accent.Bold(true)
		part := fmt.Sprintf("%s:%s", keyStyle.Render(action.Key), styleSet.Muted.Render(action.Label))
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return ""
	}

	return strings.Join(parts, "  ")
}

// RenderCenteredActionBar renders the bar centered in width.
func RenderCenteredActionBar(styleSet styles.Styles, actions []QuickAction, width int) string {
	bar := RenderQuickActionBar(styleSet, actions)
	if bar == "" || width <= 0 {
		return bar
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(bar)
}
