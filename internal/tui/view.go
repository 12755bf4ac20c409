package tui

import (
	"sync"

	"github.com/opencode-ai/oficina/internal/theme"
)

// surface is the terminal stand-in for the settings page: it holds the style
// variables, the selection indicator and the color swatches.
type surface struct {
	mu       sync.Mutex
	vars     map[string]string
	swatches map[string]string
	selected theme.ID
	checked  theme.ID
}

func newSurface() *surface {
	return &surface{
		vars:     map[string]string{},
		swatches: map[string]string{},
	}
}

// SetStyleVariable implements theme.View.
func (s *surface) SetStyleVariable(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
}

// SetSelectedOption implements theme.View.
func (s *surface) SetSelectedOption(id theme.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// SetChecked implements theme.View.
func (s *surface) SetChecked(id theme.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = id
}

// SetSwatch implements theme.View.
func (s *surface) SetSwatch(name, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swatches[name] = color
}

func (s *surface) variables() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

func (s *surface) variable(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vars[name]
}

func (s *surface) swatch(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swatches[name]
}

func (s *surface) selection() (selected, checked theme.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.checked
}
