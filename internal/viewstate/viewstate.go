// Package viewstate owns the per-visitor presentation flags: the persisted
// theme, the scroll-derived navigation flag and the set of expanded skill
// categories.
package viewstate

import (
	"encoding/json"
	"strings"
)

const (
	// ThemeKey is the durable storage key holding the serialized theme flag.
	ThemeKey = "darkMode"

	// ScrollThreshold is the fraction of the viewport height past which the
	// navigation is considered scrolled.
	ScrollThreshold = 0.8
)

// Storage is a durable per-visitor key/value store.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Catalog reports which skill categories exist.
type Catalog interface {
	HasSkillCategory(name string) bool
}

// ThemePreference is the typed form of the stored theme flag.
type ThemePreference struct {
	Dark bool
}

// DefaultTheme is used when nothing valid is stored.
var DefaultTheme = ThemePreference{Dark: true}

// ParseTheme decodes a stored value. Anything other than a JSON boolean
// falls back to DefaultTheme.
func ParseTheme(raw string, ok bool) ThemePreference {
	if !ok {
		return DefaultTheme
	}
	var dark bool
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &dark); err != nil {
		return DefaultTheme
	}
	return ThemePreference{Dark: dark}
}

// String serializes the preference the way it is stored.
func (p ThemePreference) String() string {
	if p.Dark {
		return "true"
	}
	return "false"
}

// Controller holds the view state for one visitor. It is not safe for
// concurrent use; each request builds its own.
type Controller struct {
	storage  Storage
	catalog  Catalog
	theme    ThemePreference
	scrolled bool
	expanded map[string]struct{}
	order    []string
}

// New reads the theme from storage and starts with nothing scrolled or
// expanded.
func New(storage Storage, catalog Catalog) *Controller {
	raw, ok := storage.Get(ThemeKey)
	return &Controller{
		storage:  storage,
		catalog:  catalog,
		theme:    ParseTheme(raw, ok),
		expanded: make(map[string]struct{}),
	}
}

// Dark reports whether the dark theme is active.
func (c *Controller) Dark() bool { return c.theme.Dark }

// Scrolled reports whether the last scroll measurement passed the threshold.
func (c *Controller) Scrolled() bool { return c.scrolled }

// ToggleTheme flips the theme and persists the new value.
func (c *Controller) ToggleTheme() bool {
	c.theme.Dark = !c.theme.Dark
	c.storage.Set(ThemeKey, c.theme.String())
	return c.theme.Dark
}

// SetTheme forces the theme without touching storage. Used when the client
// reports a theme alongside a fragment request.
func (c *Controller) SetTheme(dark bool) { c.theme.Dark = dark }

// ToggleSkill flips whether a category is expanded. Unknown names are
// ignored so the expanded set only ever names real categories.
func (c *Controller) ToggleSkill(name string) bool {
	if !c.catalog.HasSkillCategory(name) {
		return false
	}
	if _, ok := c.expanded[name]; ok {
		delete(c.expanded, name)
		for i, n := range c.order {
			if n == name {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
		return false
	}
	c.expanded[name] = struct{}{}
	c.order = append(c.order, name)
	return true
}

// Restore seeds the expanded set, dropping unknown and repeated names.
func (c *Controller) Restore(names []string) {
	for _, n := range names {
		if _, ok := c.expanded[n]; ok {
			continue
		}
		c.ToggleSkill(n)
	}
}

// Expanded reports whether a category is expanded.
func (c *Controller) Expanded(name string) bool {
	_, ok := c.expanded[name]
	return ok
}

// ExpandedSkills lists expanded categories in the order they were opened.
func (c *Controller) ExpandedSkills() []string {
	return append([]string(nil), c.order...)
}

// OnScroll recomputes the scrolled flag from the current measurement only.
func (c *Controller) OnScroll(offset, viewportHeight float64) bool {
	c.scrolled = IsScrolled(offset, viewportHeight)
	return c.scrolled
}

// IsScrolled reports whether offset is at or past the threshold of the
// viewport height.
func IsScrolled(offset, viewportHeight float64) bool {
	if viewportHeight <= 0 {
		return false
	}
	return offset >= viewportHeight*ScrollThreshold
}
