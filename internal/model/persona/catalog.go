package persona

import (
	"errors"
	"fmt"
)

// ErrUnknownPersona reports a lookup for a persona id that is not in the catalog.
var ErrUnknownPersona = errors.New("unknown persona")

// Catalog is the read-only persona lookup table, loaded once at startup.
type Catalog struct {
	items []Persona
	byID  map[string]Persona
}

// NewCatalog validates the supplied personas and builds the catalog.
// Ids must be unique and prompts non-empty; a violation rejects startup.
func NewCatalog(items []Persona) (*Catalog, error) {
	if len(items) == 0 {
		return nil, errors.New("persona catalog is empty")
	}

	byID := make(map[string]Persona, len(items))
	for _, item := range items {
		if item.ID == "" {
			return nil, errors.New("persona with empty id")
		}
		if item.Prompt == "" {
			return nil, fmt.Errorf("persona %q has an empty prompt", item.ID)
		}
		if _, dup := byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate persona id %q", item.ID)
		}
		byID[item.ID] = item
	}

	return &Catalog{items: append([]Persona(nil), items...), byID: byID}, nil
}

// List returns the personas in their declared order, used to render menus.
func (c *Catalog) List() []Persona {
	return append([]Persona(nil), c.items...)
}

// Get looks up a persona by identifier.
func (c *Catalog) Get(id string) (Persona, error) {
	item, ok := c.byID[id]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %q", ErrUnknownPersona, id)
	}
	return item, nil
}

// Has reports whether the catalog contains the given persona id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}
