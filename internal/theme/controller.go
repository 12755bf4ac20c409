package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/oficina/internal/logging"
	"github.com/opencode-ai/oficina/internal/notify"
)

// StorageKey is the persisted key holding the selected theme.
const StorageKey = "tema"

// Color input names and the swatches they drive.
const (
	InputPrimary   = "cor_primaria"
	InputSecondary = "cor_secundaria"
	InputAccent    = "cor_acento"
)

// Controller errors.
var (
	ErrUnknownTheme = errors.New("unknown theme")
	ErrInvalidColor = errors.New("invalid color")
)

// Store persists key/value preferences.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// View receives the effects of theme changes.
type View interface {
	SetStyleVariable(name, value string)
	SetSelectedOption(id ID)
	SetChecked(id ID)
	SetSwatch(name, color string)
}

// Controller applies, persists and restores themes.
type Controller struct {
	store    Store
	view     View
	notifier notify.Notifier
	fallback ID
	logger   zerolog.Logger

	mu      sync.Mutex
	current ID
}

// NewController creates a Controller. fallback replaces DefaultID when it is
// a known theme.
func NewController(store Store, view View, notifier notify.Notifier, fallback ID) *Controller {
	if !IsKnown(fallback) {
		fallback = DefaultID
	}
	return &Controller{
		store:    store,
		view:     view,
		notifier: notifier,
		fallback: fallback,
		logger:   logging.Component("theme"),
	}
}

// Current returns the last applied registry theme.
func (c *Controller) Current() ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// ApplyTheme sets the primary and secondary variables for id. Unknown IDs
// leave the view untouched.
func (c *Controller) ApplyTheme(id ID) bool {
	colors, ok := Lookup(id)
	if !ok {
		c.logger.Debug().Str("theme", string(id)).Msg("ignoring unknown theme")
		return false
	}

	c.mu.Lock()
	c.current = id
	c.mu.Unlock()

	if c.view == nil {
		return true
	}
	c.view.SetStyleVariable(VarTheme, string(id))
	c.view.SetStyleVariable(VarPrimary, colors.Primary)
	c.view.SetStyleVariable(VarSecondary, colors.Secondary)
	return true
}

// ApplyPreview sets primary, secondary and accent from the preview palette.
func (c *Controller) ApplyPreview(id ID) bool {
	colors, ok := PreviewPalette[id]
	if !ok {
		return false
	}
	if c.view == nil {
		return true
	}
	c.view.SetStyleVariable(VarPrimary, colors.Primary)
	c.view.SetStyleVariable(VarSecondary, colors.Secondary)
	c.view.SetStyleVariable(VarAccent, colors.Accent)
	return true
}

// PreviewTheme previews id from the preview palette, or from its registry
// colors when the palette has no entry. Nothing is persisted or selected.
func (c *Controller) PreviewTheme(id ID) bool {
	if c.ApplyPreview(id) {
		return true
	}
	colors, ok := Lookup(id)
	if !ok {
		return false
	}
	if c.view != nil {
		c.view.SetStyleVariable(VarPrimary, colors.Primary)
		c.view.SetStyleVariable(VarSecondary, colors.Secondary)
	}
	return true
}

// SelectTheme persists id, then applies it and moves the selection indicator.
// A failed write leaves the view untouched.
func (c *Controller) SelectTheme(id ID) error {
	if !IsKnown(id) {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, id)
	}

	if c.store != nil {
		if err := c.store.Set(StorageKey, string(id)); err != nil {
			return fmt.Errorf("persist theme: %w", err)
		}
	}

	c.ApplyTheme(id)
	c.markSelected(id)
	c.logger.Info().Str("theme", string(id)).Msg("theme selected")

	if c.notifier != nil {
		c.notifier.Notify(fmt.Sprintf("Tema %s aplicado!", id), notify.SeveritySuccess)
	}
	return nil
}

// RestoreTheme applies the persisted theme, or the fallback, and syncs the
// selection indicator and choice control. It returns the applied ID.
func (c *Controller) RestoreTheme() ID {
	id := c.fallback

	if c.store != nil {
		value, ok, err := c.store.Get(StorageKey)
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Msg("failed to read persisted theme")
		case ok && IsKnown(ID(value)):
			id = ID(value)
		case ok:
			c.logger.Debug().Str("theme", value).Msg("persisted theme unknown, using fallback")
		}
	}

	c.ApplyTheme(id)
	c.markSelected(id)
	return id
}

// PreviewCustomColors applies arbitrary colors without touching the registry
// or the store. All three colors must be valid hex colors; otherwise nothing
// is applied.
func (c *Controller) PreviewCustomColors(primary, secondary, accent string) error {
	values := []struct {
		input string
		color string
	}{
		{InputPrimary, primary},
		{InputSecondary, secondary},
		{InputAccent, accent},
	}

	normalized := make([]string, len(values))
	for i, v := range values {
		color, err := NormalizeColor(v.color)
		if err != nil {
			return fmt.Errorf("%s: %w", v.input, err)
		}
		normalized[i] = color
	}

	if c.view == nil {
		return nil
	}
	for i, v := range values {
		c.view.SetSwatch(SwatchName(v.input), normalized[i])
	}
	c.view.SetStyleVariable(VarPrimary, normalized[0])
	c.view.SetStyleVariable(VarSecondary, normalized[1])
	c.view.SetStyleVariable(VarAccent, normalized[2])
	return nil
}

// PreviewSwatch updates the swatch of a single color input while it is being
// edited. Invalid colors leave the swatch unchanged.
func (c *Controller) PreviewSwatch(input, value string) error {
	color, err := NormalizeColor(value)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if c.view != nil {
		c.view.SetSwatch(SwatchName(input), color)
	}
	return nil
}

func (c *Controller) markSelected(id ID) {
	if c.view == nil {
		return
	}
	c.view.SetSelectedOption(id)
	c.view.SetChecked(id)
}

// SwatchName maps a color input name to its preview swatch name.
func SwatchName(input string) string {
	return "preview-" + strings.TrimPrefix(input, "cor_")
}

// NormalizeColor validates a hex color and returns it in lower-case #rrggbb form.
func NormalizeColor(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	parsed, err := colorful.Hex(value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}
	return parsed.Hex(), nil
}
