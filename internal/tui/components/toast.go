package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/oficina/internal/notify"
	"github.com/opencode-ai/oficina/internal/tui/styles"
)

// toastSlide is how many columns a toast travels while entering or exiting.
const toastSlide = 8

// ToastExpiredMsg removes a toast from the stack.
type ToastExpiredMsg struct {
	ID string
}

// Toasts is the notification stack. Every notification stays until its own
// removal; there is no limit.
type Toasts struct {
	items []notify.Notification
}

// Show appends n and returns the command that removes it after its duration.
func (t *Toasts) Show(n notify.Notification) tea.Cmd {
	if n.Duration <= 0 {
		n.Duration = notify.DefaultDuration
	}
	t.items = append(t.items, n)
	id := n.ID
	return tea.Tick(n.Duration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Remove drops the toast with id. It reports whether one was removed.
func (t *Toasts) Remove(id string) bool {
	for i, n := range t.items {
		if n.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

// Prune drops toasts that have expired at now.
func (t *Toasts) Prune(now time.Time) {
	kept := t.items[:0]
	for _, n := range t.items {
		if n.PhaseAt(now) != notify.PhaseExpired {
			kept = append(kept, n)
		}
	}
	t.items = kept
}

// Len returns the number of toasts on screen.
func (t Toasts) Len() int {
	return len(t.items)
}

// Items returns a copy of the stack, oldest first.
func (t Toasts) Items() []notify.Notification {
	out := make([]notify.Notification, len(t.items))
	copy(out, t.items)
	return out
}

// View renders the stack at now, one toast per line.
func (t Toasts) View(now time.Time) string {
	if len(t.items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(t.items))
	for _, n := range t.items {
		if line := RenderToast(n, now); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderToast renders a single notification for its animation phase.
func RenderToast(n notify.Notification, now time.Time) string {
	style := styles.Toast(n.Severity)
	phase := n.PhaseAt(now)
	switch phase {
	case notify.PhaseExpired:
		return ""
	case notify.PhaseEntering:
		style = style.MarginLeft(SlideOffset(n, now)).Faint(true)
	case notify.PhaseExiting:
		style = style.MarginLeft(SlideOffset(n, now)).Faint(true)
	}
	return style.Render(n.Message)
}

// SlideOffset returns the horizontal offset of a toast at now: toastSlide
// when off screen, 0 when fully shown.
func SlideOffset(n notify.Notification, now time.Time) int {
	duration := n.Duration
	if duration <= 0 {
		duration = notify.DefaultDuration
	}
	elapsed := now.Sub(n.CreatedAt)
	switch n.PhaseAt(now) {
	case notify.PhaseEntering:
		remaining := notify.AnimationLength - elapsed
		return int(int64(toastSlide) * int64(remaining) / int64(notify.AnimationLength))
	case notify.PhaseExiting:
		into := elapsed - (duration - notify.AnimationLength)
		return int(int64(toastSlide) * int64(into) / int64(notify.AnimationLength))
	case notify.PhaseExpired:
		return toastSlide
	default:
		return 0
	}
}
