// Package notify implements transient, auto-dismissing notifications.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Timing of a notification's lifecycle.
const (
	DefaultDuration = 3000 * time.Millisecond
	AnimationLength = 500 * time.Millisecond
)

var severityColors = map[Severity]string{
	SeveritySuccess: "#28a745",
	SeverityError:   "#dc3545",
	SeverityWarning: "#ffc107",
	SeverityInfo:    "#17a2b8",
}

// Color returns the background color for a severity. Unknown severities use
// the info color.
func Color(s Severity) string {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[SeverityInfo]
}

// Normalize maps empty or unknown severities to info.
func Normalize(s Severity) Severity {
	if _, ok := severityColors[s]; ok {
		return s
	}
	return SeverityInfo
}

// Notification is a single toast message.
type Notification struct {
	ID        string
	Message   string
	Severity  Severity
	CreatedAt time.Time
	Duration  time.Duration
}

// Color returns the notification's background color.
func (n Notification) Color() string {
	return Color(n.Severity)
}

// Phase is the animation stage of a notification.
type Phase int

const (
	PhaseEntering Phase = iota
	PhaseVisible
	PhaseExiting
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseVisible:
		return "visible"
	case PhaseExiting:
		return "exiting"
	default:
		return "expired"
	}
}

// PhaseAt reports the animation stage at now. The exit animation overlaps the
// end of the display window.
func (n Notification) PhaseAt(now time.Time) Phase {
	duration := n.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	elapsed := now.Sub(n.CreatedAt)
	switch {
	case elapsed >= duration:
		return PhaseExpired
	case elapsed < AnimationLength:
		return PhaseEntering
	case elapsed >= duration-AnimationLength:
		return PhaseExiting
	default:
		return PhaseVisible
	}
}

// Notifier emits notifications.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, severity Severity)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string, severity Severity) {
	f(message, severity)
}

// Display renders and removes notifications.
type Display interface {
	Show(n Notification)
	Remove(id string)
}

// Scheduler runs fn after d.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Emitter creates notifications and schedules their removal.
type Emitter struct {
	display   Display
	scheduler Scheduler
	duration  time.Duration
	now       func() time.Time
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithScheduler replaces the timer-based scheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Emitter) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithDuration overrides the display duration.
func WithDuration(d time.Duration) Option {
	return func(e *Emitter) {
		if d > 0 {
			e.duration = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEmitter creates an Emitter writing to display.
func NewEmitter(display Display, opts ...Option) *Emitter {
	e := &Emitter{
		display:   display,
		scheduler: timerScheduler{},
		duration:  DefaultDuration,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Notify shows message and schedules its removal. Concurrent calls stack.
func (e *Emitter) Notify(message string, severity Severity) {
	n := e.build(message, severity)
	if e.display == nil {
		return
	}
	e.display.Show(n)
	e.scheduler.After(n.Duration, func() {
		e.display.Remove(n.ID)
	})
}

func (e *Emitter) build(message string, severity Severity) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Severity:  Normalize(severity),
		CreatedAt: e.now(),
		Duration:  e.duration,
	}
}

// New builds a notification stamped at now with the default duration.
func New(message string, severity Severity, now time.Time) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Severity:  Normalize(severity),
		CreatedAt: now,
		Duration:  DefaultDuration,
	}
}

// Recorder is an in-memory Notifier and Display. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	all    []Notification
	active map[string]Notification
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{active: make(map[string]Notification)}
}

// Notify implements Notifier.
func (r *Recorder) Notify(message string, severity Severity) {
	r.Show(New(message, severity, time.Now()))
}

// Show implements Display.
func (r *Recorder) Show(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
	r.active[n.ID] = n
}

// Remove implements Display.
func (r *Recorder) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, id)
}

// All returns every notification shown, in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.all))
	copy(out, r.all)
	return out
}

// Active returns the number of notifications not yet removed.
func (r *Recorder) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}
