package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/oficina/internal/notify"
)

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme       Theme
	Title       lipgloss.Style
	Text        lipgloss.Style
	Muted       lipgloss.Style
	Accent      lipgloss.Style
	Panel       lipgloss.Style
	Border      lipgloss.Style
	Focus       lipgloss.Style
	Highlight   lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Info        lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Modal       lipgloss.Style
	DangerModal lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() Styles {
	return BuildStyles(DefaultTheme)
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens

	return Styles{
		Theme:       theme,
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)).Bold(true),
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)),
		Panel:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(tokens.Border)).Padding(0, 1),
		Border:      lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Border)),
		Focus:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Focus)).Bold(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Highlight)),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)),
		Info:        lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Info)),
		TabActive:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Background(lipgloss.Color(tokens.Accent)).Bold(true).Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)).Padding(0, 1),
		Modal:       lipgloss.NewStyle().BorderStyle(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color(tokens.Focus)).Padding(1, 2),
		DangerModal: lipgloss.NewStyle().BorderStyle(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color(tokens.Error)).Padding(1, 2),
	}
}

// Toast returns the box style for a notification severity. Warning toasts use
// dark text on the yellow background.
func Toast(s notify.Severity) lipgloss.Style {
	fg := "#FFFFFF"
	if notify.Normalize(s) == notify.SeverityWarning {
		fg = "#212529"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(notify.Color(s))).
		Padding(0, 2)
}
