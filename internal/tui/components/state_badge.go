package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/tui/styles"
)

// RenderOutcomeBadge renders a dispatcher outcome with icon and color.
func RenderOutcomeBadge(styleSet styles.Styles, outcome danger.Outcome) string {
	icon, label, style := outcomeDescriptor(styleSet, outcome)
	return style.Render(fmt.Sprintf("%s %s", icon, label))
}

func outcomeDescriptor(styleSet styles.Styles, outcome danger.Outcome) (string, string, lipgloss.Style) {
	switch outcome {
	case danger.OutcomeSucceeded:
		return "OK", "Concluída", styleSet.Success
	case danger.OutcomeFailed:
		return "ERR", "Falhou", styleSet.Error
	case danger.OutcomeTransportError:
		return "NET", "Erro de conexão", styleSet.Warning
	case danger.OutcomeCancelled:
		return "-", "Cancelada", styleSet.Muted
	default:
		return "-", normalizeLabel(string(outcome)), styleSet.Muted
	}
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return "Desconhecido"
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
