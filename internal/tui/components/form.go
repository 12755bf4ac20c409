package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/oficina/internal/tui/styles"
)

// Field describes one input of a Form.
type Field struct {
	Name   string
	Label  string
	Secret bool
}

// FormState is the state of a Form after a key.
type FormState int

const (
	FormEditing FormState = iota
	FormSubmitted
	FormCancelled
)

// Form is a vertical list of text inputs submitted with enter on the last one.
type Form struct {
	Title string

	fields []Field
	inputs []textinput.Model
	focus  int
}

// NewForm creates a form with optional initial values keyed by field name.
func NewForm(title string, fields []Field, values map[string]string) *Form {
	f := &Form{Title: title, fields: fields}
	for i, field := range fields {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 32
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(values[field.Name])
		if i == 0 {
			ti.Focus()
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// Focused returns the name of the focused field.
func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].Name
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string {
	for i, field := range f.fields {
		if field.Name == name {
			return f.inputs[i].Value()
		}
	}
	return ""
}

// Update handles a key.
func (f *Form) Update(msg tea.KeyMsg) (FormState, tea.Cmd) {
	if len(f.inputs) == 0 {
		return FormCancelled, nil
	}
	switch msg.String() {
	case "esc":
		return FormCancelled, nil
	case "tab", "down":
		return FormEditing, f.move(1)
	case "shift+tab", "up":
		return FormEditing, f.move(-1)
	case "enter":
		if f.focus == len(f.inputs)-1 {
			return FormSubmitted, nil
		}
		return FormEditing, f.move(1)
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return FormEditing, cmd
}

func (f *Form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.inputs[f.focus].Focus()
}

// View renders the form. Decorate can append text after a field, such as a
// color swatch.
func (f *Form) View(styleSet styles.Styles, decorate func(name string) string) string {
	lines := []string{styleSet.Title.Render(f.Title), ""}
	for i, field := range f.fields {
		label := styleSet.Muted.Render(field.Label)
		if i == f.focus {
			label = styleSet.Focus.Render(field.Label)
		}
		line := label + "\n" + f.inputs[i].View()
		if decorate != nil {
			if extra := decorate(field.Name); extra != "" {
				line += "  " + extra
			}
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", styleSet.Muted.Render("[tab] próximo campo   [enter] enviar   [esc] cancelar"))
	return strings.Join(lines, "\n")
}
