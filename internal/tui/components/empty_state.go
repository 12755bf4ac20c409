// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/oficina/internal/tui/styles"
)

// EmptyState represents an empty state message with optional suggestions.
type EmptyState struct {
	// Icon is an optional icon to display (e.g., "📭", "🔍").
	Icon string
	// Title is the main empty state message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Suggestions are keys or commands the user can try.
	Suggestions []Suggestion
}

// Suggestion represents a suggested command with description.
type Suggestion struct {
	// Command is a key or CLI command (e.g., "oficina history").
	Command string
	// Description explains what the command does.
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	var lines []string

	titleLine := e.Title
	if e.Icon != "" {
		titleLine = e.Icon + "  " + titleLine
	}
	lines = append(lines, styleSet.Muted.Render(titleLine))

	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	if len(e.Suggestions) > 0 {
		lines = append(lines, "")
		lines = append(lines, styleSet.Text.Render("Tente:"))
		for _, s := range e.Suggestions {
			cmdLine := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				cmdLine += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, cmdLine)
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCompact renders a compact single-line empty state.
func (e EmptyState) RenderCompact(styleSet styles.Styles) string {
	line := e.Title
	if e.Icon != "" {
		line = e.Icon + " " + line
	}
	if len(e.Suggestions) > 0 {
		line += fmt.Sprintf(" Tente: %s", e.Suggestions[0].Command)
	}
	return styleSet.Muted.Render(line)
}

// EmptyHistory is shown before any danger-zone action has run.
func EmptyHistory() EmptyState {
	return EmptyState{
		Icon:     "📋",
		Title:    "Nenhuma ação registrada",
		Subtitle: "Limpezas e resets aparecem aqui depois de executados.",
		Suggestions: []Suggestion{
			{Command: "oficina history", Description: "listar o histórico completo"},
		},
	}
}

// NoServer is shown when no server URL is configured.
func NoServer() EmptyState {
	return EmptyState{
		Icon:     "🔌",
		Title:    "Servidor não configurado",
		Subtitle: "Ações remotas ficam indisponíveis.",
		Suggestions: []Suggestion{
			{Command: "oficina init", Description: "criar o arquivo de configuração"},
			{Command: "--server <url>", Description: "informar o servidor na linha de comando"},
		},
	}
}
