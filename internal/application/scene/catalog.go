package scene

import (
	"fmt"

	"github.com/younwookim/framehost/internal/application/input"
)

// Factory builds a new instance of a named scene
type Factory func() Scene

// Catalog is the ordered set of scenes the user can cycle through
type Catalog struct {
	names     []string
	factories map[string]Factory
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds a named scene. Registering a name twice replaces the
// factory but keeps its position.
func (c *Catalog) Register(name string, f Factory) {
	if _, ok := c.factories[name]; !ok {
		c.names = append(c.names, name)
	}
	c.factories[name] = f
}

// Names returns the registered names in order
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Create builds the named scene
func (c *Catalog) Create(name string) (Scene, error) {
	f, ok := c.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	return f(), nil
}

// Neighbor returns the name delta positions away from name, wrapping
// around. Unknown names resolve to the first entry.
func (c *Catalog) Neighbor(name string, delta int) string {
	if len(c.names) == 0 {
		return ""
	}

	idx := 0
	for i, n := range c.names {
		if n == name {
			idx = i
			break
		}
	}

	n := len(c.names)
	idx = ((idx+delta)%n + n) % n
	return c.names[idx]
}

// Navigator lets a scene switch to its catalog neighbors on Left/Right.
// Scenes embed it, feed it input, and return Next from Update.
type Navigator struct {
	catalog *Catalog
	name    string
	pending string
}

// NewNavigator creates a navigator for the scene registered as name
func NewNavigator(c *Catalog, name string) *Navigator {
	return &Navigator{catalog: c, name: name}
}

// Name returns the catalog name of the owning scene
func (n *Navigator) Name() string {
	return n.name
}

// HandleInput records a switch request on Left/Right presses
func (n *Navigator) HandleInput(ev input.Event) {
	if n.catalog == nil {
		return
	}
	switch {
	case ev.IsKeyPress(input.KeyLeft):
		n.pending = n.catalog.Neighbor(n.name, -1)
	case ev.IsKeyPress(input.KeyRight):
		n.pending = n.catalog.Neighbor(n.name, 1)
	}
}

// Next builds the requested scene, or returns nil if none is requested.
// The request is consumed.
func (n *Navigator) Next() (Scene, error) {
	if n.pending == "" {
		return nil, nil
	}
	name := n.pending
	n.pending = ""
	return n.catalog.Create(name)
}
