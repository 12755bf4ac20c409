package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/models"
	"github.com/opencode-ai/oficina/internal/notify"
	"github.com/opencode-ai/oficina/internal/tui/components"
)

// toastShowMsg adds a notification to the toast stack.
type toastShowMsg struct {
	Notification notify.Notification
}

// questionMsg asks the user to answer a modal. The asking goroutine blocks
// on Reply.
type questionMsg struct {
	Kind    components.ModalKind
	Message string
	Reply   chan<- components.Answer
}

// reloadMsg re-runs console initialization after a full reset.
type reloadMsg struct{}

// actionDoneMsg reports the end of a background run.
type actionDoneMsg struct {
	Label   string
	Outcome danger.Outcome
	Err     error
}

// historyLoadedMsg carries recent action history.
type historyLoadedMsg struct {
	Events []*models.Event
	Err    error
}

type tickMsg time.Time

// bridge connects background runs to the program. Messages are delivered in
// order by a single pump goroutine, so posting never blocks the update loop.
type bridge struct {
	mu      sync.Mutex
	pending []tea.Msg
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newBridge() *bridge {
	return &bridge{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// start begins delivering posted messages through send.
func (b *bridge) start(send func(tea.Msg)) {
	go b.pump(send)
}

func (b *bridge) pump(send func(tea.Msg)) {
	for {
		select {
		case <-b.done:
			return
		case <-b.wake:
		}
		for {
			msg, ok := b.pop()
			if !ok {
				break
			}
			send(msg)
		}
	}
}

func (b *bridge) pop() (tea.Msg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil, false
	}
	msg := b.pending[0]
	b.pending = b.pending[1:]
	return msg, true
}

func (b *bridge) post(msg tea.Msg) {
	b.mu.Lock()
	b.pending = append(b.pending, msg)
	b.mu.Unlock()
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// close releases goroutines blocked on a question.
func (b *bridge) close() {
	b.once.Do(func() { close(b.done) })
}

// Show implements notify.Display.
func (b *bridge) Show(n notify.Notification) {
	b.post(toastShowMsg{Notification: n})
}

// Remove implements notify.Display.
func (b *bridge) Remove(id string) {
	b.post(components.ToastExpiredMsg{ID: id})
}

// After implements notify.Scheduler. Removal is driven by the toast stack's
// own tea.Tick.
func (b *bridge) After(time.Duration, func()) {}

// Confirm implements danger.Confirmer and forms.Confirmer.
func (b *bridge) Confirm(message string) bool {
	return b.ask(components.ModalConfirm, message).OK
}

// PromptText implements danger.Confirmer.
func (b *bridge) PromptText(message string) (string, bool) {
	answer := b.ask(components.ModalPrompt, message)
	return answer.Text, answer.OK
}

func (b *bridge) ask(kind components.ModalKind, message string) components.Answer {
	reply := make(chan components.Answer, 1)
	b.post(questionMsg{Kind: kind, Message: message, Reply: reply})
	select {
	case answer := <-reply:
		return answer
	case <-b.done:
		return components.Answer{}
	}
}

// Reload implements danger.Reloader.
func (b *bridge) Reload() {
	b.post(reloadMsg{})
}

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
