package ui

import (
	"fmt"
	"slices"

	tint "github.com/lrstanley/bubbletint"

	"github.com/xolan/locktime/internal/config"
)

// DefaultTheme is the tint id used when the configured theme is empty or
// unknown.
var DefaultTheme = config.DefaultConfig().Theme

// Themes holds the bundled bubbletint palettes and the one in use. The id
// of the palette in use is what the config file stores as theme.
type Themes struct {
	registry *tint.Registry
	ids      []string
}

// LoadThemes selects the tint with the given id. Unknown ids leave
// DefaultTheme selected.
func LoadThemes(id string) *Themes {
	all := tint.DefaultTints()
	def := slices.IndexFunc(all, func(t tint.Tint) bool { return t.ID() == DefaultTheme })
	if def < 0 {
		def = 0
	}

	t := &Themes{registry: tint.NewRegistry(all[def], all...)}
	t.ids = t.registry.TintIDs()
	slices.Sort(t.ids)
	if id != "" {
		t.Use(id)
	}
	return t
}

// Use selects the tint with the given id. It reports false and keeps the
// current tint when the id is unknown.
func (t *Themes) Use(id string) bool {
	return t.registry.SetTintID(id)
}

// Step moves n places through the sorted ids, wrapping at either end, and
// returns the id now in use.
func (t *Themes) Step(n int) string {
	if len(t.ids) == 0 {
		return t.ID()
	}
	i := (t.Index() + n) % len(t.ids)
	if i < 0 {
		i += len(t.ids)
	}
	t.registry.SetTintID(t.ids[i])
	return t.ID()
}

// ID returns the id of the tint in use.
func (t *Themes) ID() string {
	return t.registry.ID()
}

// Index is the position of the tint in use within IDs.
func (t *Themes) Index() int {
	return max(slices.Index(t.ids, t.ID()), 0)
}

// Label names the tint in use for display, e.g. "Dracula (dracula)".
func (t *Themes) Label() string {
	name := t.registry.DisplayName()
	if name == "" || name == t.ID() {
		return t.ID()
	}
	return fmt.Sprintf("%s (%s)", name, t.ID())
}

// IDs returns every tint id, sorted.
func (t *Themes) IDs() []string {
	return slices.Clone(t.ids)
}

// Styles builds the TUI styles from the tint in use.
func (t *Themes) Styles() Styles {
	return NewStylesFromRegistry(t.registry)
}
