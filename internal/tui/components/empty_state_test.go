package components

import (
	"strings"
	"testing"

	"github.com/opencode-ai/oficina/internal/tui/styles"
)

func TestEmptyStateRender(t *testing.T) {
	styleSet := styles.DefaultStyles()

	t.Run("basic empty state", func(t *testing.T) {
		result := EmptyState{Title: "Nada aqui"}.Render(styleSet)
		if !strings.Contains(result, "Nada aqui") {
			t.Errorf("Expected title in output, got: %s", result)
		}
	})

	t.Run("empty state with icon and subtitle", func(t *testing.T) {
		result := EmptyState{Icon: "📭", Title: "Vazio", Subtitle: "Volte depois"}.Render(styleSet)
		for _, want := range []string{"📭", "Vazio", "Volte depois"} {
			if !strings.Contains(result, want) {
				t.Errorf("Expected %q in output, got: %s", want, result)
			}
		}
	})

	t.Run("empty state with suggestions", func(t *testing.T) {
		result := EmptyHistory().Render(styleSet)
		if !strings.Contains(result, "Tente:") {
			t.Errorf("Expected suggestions header, got: %s", result)
		}
		if !strings.Contains(result, "oficina history") {
			t.Errorf("Expected command in output, got: %s", result)
		}
	})
}

func TestEmptyStateRenderCompact(t *testing.T) {
	styleSet := styles.DefaultStyles()

	result := NoServer().RenderCompact(styleSet)
	if !strings.Contains(result, "Servidor não configurado") {
		t.Errorf("Expected title, got: %s", result)
	}
	if !strings.Contains(result, "Tente: oficina init") {
		t.Errorf("Expected first suggestion, got: %s", result)
	}
	if strings.Contains(result, "\n") {
		t.Errorf("Compact render should be one line, got: %s", result)
	}
}
