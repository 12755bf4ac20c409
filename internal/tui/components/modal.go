package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/oficina/internal/tui/styles"
)

// ModalKind selects how a modal is answered.
type ModalKind int

const (
	// ModalConfirm is answered with yes or no.
	ModalConfirm ModalKind = iota
	// ModalPrompt is answered with free text or cancelled.
	ModalPrompt
)

// Answer is the result of a closed modal.
type Answer struct {
	OK   bool
	Text string
}

// Modal is a blocking question shown over the current tab.
type Modal struct {
	Kind    ModalKind
	Message string
	Danger  bool

	input textinput.Model
}

// NewConfirm creates a yes/no modal.
func NewConfirm(message string, danger bool) *Modal {
	return &Modal{Kind: ModalConfirm, Message: message, Danger: danger}
}

// NewPrompt creates a text modal. The typed value is returned verbatim.
func NewPrompt(message string, danger bool) *Modal {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.CharLimit = 120
	ti.Width = 40
	ti.Focus()
	return &Modal{Kind: ModalPrompt, Message: message, Danger: danger, input: ti}
}

// Init returns the cursor blink command for prompts.
func (m *Modal) Init() tea.Cmd {
	if m.Kind == ModalPrompt {
		return textinput.Blink
	}
	return nil
}

// Update handles a key. done reports whether the modal closed.
func (m *Modal) Update(msg tea.KeyMsg) (done bool, answer Answer, cmd tea.Cmd) {
	switch m.Kind {
	case ModalConfirm:
		switch strings.ToLower(msg.String()) {
		case "y", "s", "enter":
			return true, Answer{OK: true}, nil
		case "n", "esc", "ctrl+c":
			return true, Answer{}, nil
		}
		return false, Answer{}, nil
	default:
		switch msg.String() {
		case "enter":
			return true, Answer{OK: true, Text: m.input.Value()}, nil
		case "esc", "ctrl+c":
			return true, Answer{}, nil
		}
		m.input, cmd = m.input.Update(msg)
		return false, Answer{}, cmd
	}
}

// View renders the modal box.
func (m *Modal) View(styleSet styles.Styles, width int) string {
	box := styleSet.Modal
	if m.Danger {
		box = styleSet.DangerModal
	}
	if width > 8 {
		box = box.Width(min(width-4, 72))
	}

	lines := []string{styleSet.Text.Render(m.Message), ""}
	switch m.Kind {
	case ModalConfirm:
		lines = append(lines, styleSet.Muted.Render("[s/y/enter] OK   [n/esc] Cancelar"))
	default:
		lines = append(lines, m.input.View(), "", styleSet.Muted.Render("[enter] OK   [esc] Cancelar"))
	}
	return box.Render(strings.Join(lines, "\n"))
}
