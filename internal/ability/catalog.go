package ability

import (
	"sort"
	"sync"

	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// Catalog is an immutable registry of ability definitions. It is safe for
// concurrent use.
type Catalog struct {
	defs map[string]Definition
}

// NewCatalog validates defs and builds a catalog. Every effect tag must be
// in the vocabulary and names must be unique.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.InvalidArgument("ability definition without a name")
		}
		if _, exists := c.defs[def.Name]; exists {
			return nil, errors.InvalidArgumentf("ability %s defined twice", def.Name)
		}
		if _, err := New(def, nil); err != nil {
			return nil, err
		}
		c.defs[def.Name] = def
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog, constructing it on first use.
var DefaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return NewCatalog(Definitions()...)
})

// ByName builds a fresh ability from the named definition. Each call
// returns an independent instance.
func (c *Catalog) ByName(name string, strength *int) (*Ability, error) {
	def, ok := c.defs[name]
	if !ok {
		return nil, errors.UnknownAbility(name)
	}
	return New(def, strength)
}

// Has reports whether name is defined.
func (c *Catalog) Has(name string) bool {
	_, ok := c.defs[name]
	return ok
}

// Names lists every ability in name order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.defs))
	for name := range c.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
