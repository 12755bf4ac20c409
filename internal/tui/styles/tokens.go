package styles

import "github.com/opencode-ai/oficina/internal/theme"

// ThemeTokens defines the semantic color roles for the TUI.
type ThemeTokens struct {
	Background string
	Panel      string
	Text       string
	TextMuted  string
	Border     string
	Accent     string
	Focus      string
	Highlight  string
	Success    string
	Warning    string
	Error      string
	Info       string
}

// Theme bundles a palette with a name.
type Theme struct {
	Name   string
	Tokens ThemeTokens
}

// FromVariables overlays the applied style variables on the base palette.
// Missing variables keep the base colors.
func FromVariables(name string, vars map[string]string) Theme {
	t := DefaultTheme
	if name != "" {
		t.Name = name
	}
	if v := vars[theme.VarPrimary]; v != "" {
		t.Tokens.Accent = v
		t.Tokens.Border = v
	}
	if v := vars[theme.VarSecondary]; v != "" {
		t.Tokens.Focus = v
	}
	if v := vars[theme.VarAccent]; v != "" {
		t.Tokens.Highlight = v
	}
	return t
}
