// Package tabs keeps exactly one tab button and its panel active.
package tabs

// Tab pairs a button with the panel that shares its ID.
type Tab struct {
	ID    string
	Label string
}

// Controller tracks which tab is active.
type Controller struct {
	tabs         []Tab
	buttonActive map[string]bool
	panelActive  map[string]bool
}

// New creates a Controller. active mirrors the initial markup: it is marked
// active when it names a known tab; otherwise nothing is active.
func New(tabs []Tab, active string) *Controller {
	c := &Controller{
		tabs:         append([]Tab(nil), tabs...),
		buttonActive: make(map[string]bool, len(tabs)),
		panelActive:  make(map[string]bool, len(tabs)),
	}
	for _, tab := range c.tabs {
		c.buttonActive[tab.ID] = false
		c.panelActive[tab.ID] = false
	}
	if c.has(active) {
		c.buttonActive[active] = true
		c.panelActive[active] = true
	}
	return c
}

// Tabs returns the tabs in order.
func (c *Controller) Tabs() []Tab {
	return append([]Tab(nil), c.tabs...)
}

// Activate deactivates every button and panel, then activates id. Unknown IDs
// change nothing.
func (c *Controller) Activate(id string) bool {
	if !c.has(id) {
		return false
	}
	for key := range c.buttonActive {
		c.buttonActive[key] = false
	}
	for key := range c.panelActive {
		c.panelActive[key] = false
	}
	c.buttonActive[id] = true
	c.panelActive[id] = true
	return true
}

// Active returns the active tab ID, or "" when none is active.
func (c *Controller) Active() string {
	for _, tab := range c.tabs {
		if c.buttonActive[tab.ID] {
			return tab.ID
		}
	}
	return ""
}

// ButtonActive reports whether the button for id carries the active marker.
func (c *Controller) ButtonActive(id string) bool {
	return c.buttonActive[id]
}

// PanelActive reports whether the panel for id carries the active marker.
func (c *Controller) PanelActive(id string) bool {
	return c.panelActive[id]
}

// Next activates the tab after the active one, wrapping around.
func (c *Controller) Next() string {
	return c.step(1)
}

// Prev activates the tab before the active one, wrapping around.
func (c *Controller) Prev() string {
	return c.step(-1)
}

// ActivateIndex activates the tab at position i (0-based).
func (c *Controller) ActivateIndex(i int) bool {
	if i < 0 || i >= len(c.tabs) {
		return false
	}
	return c.Activate(c.tabs[i].ID)
}

func (c *Controller) step(delta int) string {
	if len(c.tabs) == 0 {
		return ""
	}
	idx := c.index(c.Active())
	if idx < 0 {
		idx = 0
		if delta < 0 {
			idx = len(c.tabs) - 1
		}
	} else {
		idx = (idx + delta + len(c.tabs)) % len(c.tabs)
	}
	c.Activate(c.tabs[idx].ID)
	return c.tabs[idx].ID
}

func (c *Controller) index(id string) int {
	for i, tab := range c.tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) has(id string) bool {
	return c.index(id) >= 0
}
