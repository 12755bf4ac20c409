// Package theme maps theme identifiers to colors and applies them to a view.
package theme

import "sort"

// ID identifies a named theme.
type ID string

const (
	Azul     ID = "azul"
	Verde    ID = "verde"
	Roxo     ID = "roxo"
	Vermelho ID = "vermelho"
	Escuro   ID = "escuro"
	Laranja  ID = "laranja"
)

// DefaultID is used when no theme is persisted or the persisted one is unknown.
const DefaultID = Azul

// Style variable names understood by a View.
const (
	VarPrimary   = "--primary-color"
	VarSecondary = "--secondary-color"
	VarAccent    = "--accent-color"
	VarTheme     = "data-theme"
)

// Colors is the color set of a theme. Accent is only set by the preview palette.
type Colors struct {
	Primary   string
	Secondary string
	Accent    string
}

// Registry lists the themes that can be selected and persisted.
var Registry = map[ID]Colors{
	Azul:     {Primary: "#3b8d9e", Secondary: "#0056b3"},
	Verde:    {Primary: "#28a745", Secondary: "#20c997"},
	Roxo:     {Primary: "#6f42c1", Secondary: "#563d7c"},
	Vermelho: {Primary: "#dc3545", Secondary: "#c82333"},
	Escuro:   {Primary: "#343a40", Secondary: "#495057"},
}

// PreviewPalette is used while an option is highlighted but not yet chosen.
var PreviewPalette = map[ID]Colors{
	Azul:    {Primary: "#3b8d9e", Secondary: "#2e7a87", Accent: "#17a2b8"},
	Verde:   {Primary: "#28a745", Secondary: "#20c997", Accent: "#17a2b8"},
	Laranja: {Primary: "#ff6b35", Secondary: "#f4623a", Accent: "#fd7e14"},
	Roxo:    {Primary: "#6f42c1", Secondary: "#563d7c", Accent: "#e83e8c"},
	Escuro:  {Primary: "#343a40", Secondary: "#495057", Accent: "#6c757d"},
}

var displayOrder = []ID{Azul, Verde, Roxo, Vermelho, Escuro}

var pickerOrder = []ID{Azul, Verde, Laranja, Roxo, Vermelho, Escuro}

// Lookup returns the registry colors for id.
func Lookup(id ID) (Colors, bool) {
	c, ok := Registry[id]
	return c, ok
}

// IsKnown reports whether id is in the registry.
func IsKnown(id ID) bool {
	_, ok := Registry[id]
	return ok
}

// List returns registry IDs in display order.
func List() []ID {
	out := make([]ID, 0, len(Registry))
	seen := make(map[ID]bool, len(Registry))
	for _, id := range displayOrder {
		if _, ok := Registry[id]; ok {
			out = append(out, id)
			seen[id] = true
		}
	}
	var extra []ID
	for id := range Registry {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// PreviewOnly reports whether id has preview colors but cannot be selected.
func PreviewOnly(id ID) bool {
	_, preview := PreviewPalette[id]
	return preview && !IsKnown(id)
}

// PickerList returns the selectable themes and the preview-only palette
// entries, in picker order.
func PickerList() []ID {
	out := make([]ID, 0, len(pickerOrder))
	for _, id := range pickerOrder {
		if IsKnown(id) || PreviewOnly(id) {
			out = append(out, id)
		}
	}
	return out
}
