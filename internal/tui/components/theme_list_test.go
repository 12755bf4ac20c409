package components

import (
	"strings"
	"testing"

	"github.com/opencode-ai/oficina/internal/theme"
	"github.com/opencode-ai/oficina/internal/tui/styles"
)

func TestThemeListMoveClamps(t *testing.T) {
	l := ThemeList{IDs: theme.List()}

	l.Move(-1)
	if l.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", l.Cursor)
	}
	l.Move(100)
	if l.Cursor != len(l.IDs)-1 {
		t.Fatalf("expected cursor at end, got %d", l.Cursor)
	}
	id, ok := l.Highlighted()
	if !ok || id != l.IDs[len(l.IDs)-1] {
		t.Fatalf("unexpected highlighted %q", id)
	}
}

func TestThemeListViewMarksSelection(t *testing.T) {
	l := ThemeList{IDs: []theme.ID{theme.Azul, theme.Verde}, Selected: theme.Verde, Checked: theme.Verde}
	view := l.View(styles.DefaultStyles())

	lines := strings.Split(view, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if strings.Contains(lines[0], "✓") || strings.Contains(lines[0], "(•)") {
		t.Fatalf("azul should not be marked: %q", lines[0])
	}
	if !strings.Contains(lines[1], "✓") || !strings.Contains(lines[1], "(•)") {
		t.Fatalf("verde should be marked: %q", lines[1])
	}
}

func TestThemeListViewMarksPreviewOnly(t *testing.T) {
	l := ThemeList{IDs: theme.PickerList()}
	lines := strings.Split(l.View(styles.DefaultStyles()), "\n")

	if len(lines) != len(l.IDs) {
		t.Fatalf("expected %d lines, got %d", len(l.IDs), len(lines))
	}
	for i, id := range l.IDs {
		marked := strings.Contains(lines[i], "(só prévia)")
		if marked != theme.PreviewOnly(id) {
			t.Fatalf("%s: preview-only marker = %v in %q", id, marked, lines[i])
		}
	}
}
