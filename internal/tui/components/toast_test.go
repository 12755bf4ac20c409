package components

import (
	"strings"
	"testing"
	"time"

	"github.com/opencode-ai/oficina/internal/notify"
)

func TestToastsShowAndRemove(t *testing.T) {
	var stack Toasts
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	first := notify.New("Tema verde aplicado!", notify.SeveritySuccess, now)
	second := notify.New("Limpeza de logs iniciada!", notify.SeverityInfo, now)

	if cmd := stack.Show(first); cmd == nil {
		t.Fatal("expected removal command")
	}
	stack.Show(second)
	if stack.Len() != 2 {
		t.Fatalf("expected 2 toasts, got %d", stack.Len())
	}

	if !stack.Remove(first.ID) {
		t.Fatal("expected first toast to be removed")
	}
	if stack.Remove(first.ID) {
		t.Fatal("second removal should be a no-op")
	}
	items := stack.Items()
	if len(items) != 1 || items[0].ID != second.ID {
		t.Fatalf("unexpected stack: %#v", items)
	}
}

func TestToastsPrune(t *testing.T) {
	var stack Toasts
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	old := notify.New("antiga", notify.SeverityInfo, now.Add(-4*time.Second))
	fresh := notify.New("nova", notify.SeverityInfo, now)
	stack.Show(old)
	stack.Show(fresh)

	stack.Prune(now)
	items := stack.Items()
	if len(items) != 1 || items[0].Message != "nova" {
		t.Fatalf("expected only fresh toast, got %#v", items)
	}
}

func TestSlideOffset(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n := notify.New("x", notify.SeverityWarning, start)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{name: "just created", elapsed: 0, want: toastSlide},
		{name: "halfway in", elapsed: 250 * time.Millisecond, want: toastSlide / 2},
		{name: "visible", elapsed: 600 * time.Millisecond, want: 0},
		{name: "exit start", elapsed: 2500 * time.Millisecond, want: 0},
		{name: "halfway out", elapsed: 2750 * time.Millisecond, want: toastSlide / 2},
		{name: "gone", elapsed: 3000 * time.Millisecond, want: toastSlide},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlideOffset(n, start.Add(tt.elapsed)); got != tt.want {
				t.Fatalf("expected offset %d, got %d", tt.want, got)
			}
		})
	}
}

func TestToastsView(t *testing.T) {
	var stack Toasts
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stack.Show(notify.New("✅ Logs limpos", notify.SeveritySuccess, now))

	view := stack.View(now.Add(time.Second))
	if !strings.Contains(view, "✅ Logs limpos") {
		t.Fatalf("expected message in view, got %q", view)
	}
	if got := stack.View(now.Add(5 * time.Second)); got != "" {
		t.Fatalf("expired toast should not render, got %q", got)
	}
}
