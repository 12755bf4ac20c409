package cli

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/models"
	"github.com/opencode-ai/oficina/internal/notify"
)

func formatOutcome(outcome danger.Outcome) string {
	label, color := statusLabelForOutcome(outcome)
	return colorize(formatStatusLabel(label, string(outcome)), color)
}

func formatEventType(eventType models.EventType) string {
	if strings.HasPrefix(string(eventType), "action.") {
		return formatOutcome(danger.Outcome(strings.TrimPrefix(string(eventType), "action.")))
	}
	return colorize(formatStatusLabel("INFO", string(eventType)), colorCyan)
}

func statusLabelForOutcome(outcome danger.Outcome) (string, string) {
	switch outcome {
	case danger.OutcomeSucceeded:
		return "OK", colorGreen
	case danger.OutcomeFailed:
		return "ERR", colorRed
	case danger.OutcomeTransportError:
		return "ERR", colorMagenta
	case danger.OutcomeCancelled:
		return "SKIP", colorYellow
	default:
		return "WARN", colorYellow
	}
}

func severityColor(severity notify.Severity) string {
	switch notify.Normalize(severity) {
	case notify.SeveritySuccess:
		return colorGreen
	case notify.SeverityError:
		return colorRed
	case notify.SeverityWarning:
		return colorYellow
	default:
		return colorCyan
	}
}

func formatStatusLabel(label, status string) string {
	normalized := strings.TrimSpace(status)
	if normalized != "" {
		normalized = strings.ReplaceAll(normalized, "_", " ")
	}
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}
