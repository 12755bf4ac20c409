package notify

import (
	"testing"
	"time"
)

type manualScheduler struct {
	delays []time.Duration
	funcs  []func()
}

func (s *manualScheduler) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.funcs = append(s.funcs, fn)
}

func (s *manualScheduler) fireAll() {
	for _, fn := range s.funcs {
		fn()
	}
	s.funcs = nil
}

func TestEmitter_ShowsAndSchedulesRemoval(t *testing.T) {
	display := NewRecorder()
	scheduler := &manualScheduler{}
	emitter := NewEmitter(display, WithScheduler(scheduler))

	emitter.Notify("done", SeveritySuccess)

	if display.Active() != 1 {
		t.Fatalf("expected 1 active notification, got %d", display.Active())
	}
	if len(scheduler.delays) != 1 || scheduler.delays[0] != 3000*time.Millisecond {
		t.Fatalf("expected removal after 3000ms, got %v", scheduler.delays)
	}

	scheduler.fireAll()
	if display.Active() != 0 {
		t.Fatalf("expected notification removed, got %d active", display.Active())
	}
}

func TestEmitter_StacksIndependently(t *testing.T) {
	display := NewRecorder()
	scheduler := &manualScheduler{}
	emitter := NewEmitter(display, WithScheduler(scheduler))

	emitter.Notify("same", SeverityInfo)
	emitter.Notify("same", SeverityInfo)
	emitter.Notify("other", SeverityError)

	all := display.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(all))
	}
	if all[0].ID == all[1].ID {
		t.Fatalf("expected distinct IDs for duplicate messages")
	}
	if display.Active() != 3 {
		t.Fatalf("expected 3 active, got %d", display.Active())
	}
}

func TestEmitter_DefaultsUnknownSeverityToInfo(t *testing.T) {
	display := NewRecorder()
	emitter := NewEmitter(display, WithScheduler(&manualScheduler{}))

	emitter.Notify("hello", "")
	emitter.Notify("hello", Severity("loud"))

	for _, n := range display.All() {
		if n.Severity != SeverityInfo {
			t.Fatalf("expected info severity, got %q", n.Severity)
		}
		if n.Color() != "#17a2b8" {
			t.Fatalf("expected info color, got %q", n.Color())
		}
	}
}

func TestEmitter_NilDisplayIsSafe(t *testing.T) {
	emitter := NewEmitter(nil)
	emitter.Notify("ignored", SeverityWarning)
}

func TestColor(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeveritySuccess, "#28a745"},
		{SeverityError, "#dc3545"},
		{SeverityWarning, "#ffc107"},
		{SeverityInfo, "#17a2b8"},
	}
	for _, tt := range tests {
		if got := Color(tt.severity); got != tt.want {
			t.Errorf("Color(%q) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestPhaseAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n := New("msg", SeverityInfo, start)

	tests := []struct {
		offset time.Duration
		want   Phase
	}{
		{0, PhaseEntering},
		{499 * time.Millisecond, PhaseEntering},
		{600 * time.Millisecond, PhaseVisible},
		{2499 * time.Millisecond, PhaseVisible},
		{2600 * time.Millisecond, PhaseExiting},
		{3000 * time.Millisecond, PhaseExpired},
	}
	for _, tt := range tests {
		if got := n.PhaseAt(start.Add(tt.offset)); got != tt.want {
			t.Errorf("PhaseAt(+%s) = %s, want %s", tt.offset, got, tt.want)
		}
	}
}

func TestWithClockStampsCreatedAt(t *testing.T) {
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	display := NewRecorder()
	emitter := NewEmitter(display, WithScheduler(&manualScheduler{}), WithClock(func() time.Time { return fixed }))

	emitter.Notify("x", SeverityInfo)

	last, ok := display.Last()
	if !ok {
		t.Fatal("expected a notification")
	}
	if !last.CreatedAt.Equal(fixed) {
		t.Fatalf("expected CreatedAt %v, got %v", fixed, last.CreatedAt)
	}
}
