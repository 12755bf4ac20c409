package styles

import (
	"testing"

	"github.com/opencode-ai/oficina/internal/theme"
)

func TestFromVariablesOverlaysThemeColors(t *testing.T) {
	got := FromVariables("verde", map[string]string{
		theme.VarPrimary:   "#28a745",
		theme.VarSecondary: "#20c997",
	})

	if got.Name != "verde" {
		t.Fatalf("expected name verde, got %q", got.Name)
	}
	if got.Tokens.Accent != "#28a745" || got.Tokens.Border != "#28a745" {
		t.Fatalf("primary not applied: %#v", got.Tokens)
	}
	if got.Tokens.Focus != "#20c997" {
		t.Fatalf("secondary not applied: %#v", got.Tokens)
	}
	if got.Tokens.Highlight != DefaultTheme.Tokens.Highlight {
		t.Fatalf("missing accent should keep base color, got %q", got.Tokens.Highlight)
	}
	if DefaultTheme.Tokens.Accent != "#3b8d9e" {
		t.Fatalf("base palette mutated: %q", DefaultTheme.Tokens.Accent)
	}
}

func TestBuildStylesKeepsTheme(t *testing.T) {
	s := BuildStyles(FromVariables("", nil))
	if s.Theme.Name != DefaultTheme.Name {
		t.Fatalf("expected default name, got %q", s.Theme.Name)
	}
}
