package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProvider reports a lookup for a provider id that is not in the catalog.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrInvalidSelection reports a provider/model pair the catalog rejects.
	ErrInvalidSelection = errors.New("invalid provider/model selection")
)

// Catalog is the read-only provider lookup table, loaded once at startup.
type Catalog struct {
	items []Descriptor
	byID  map[string]Descriptor
}

// NewCatalog validates the supplied descriptors and builds the catalog.
// Every provider must list at least one model, ids must be unique, and
// model entries must be unique within their provider.
func NewCatalog(items []Descriptor) (*Catalog, error) {
	if len(items) == 0 {
		return nil, errors.New("provider catalog is empty")
	}

	byID := make(map[string]Descriptor, len(items))
	for _, item := range items {
		if item.ID == "" {
			return nil, errors.New("provider with empty id")
		}
		if _, dup := byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate provider id %q", item.ID)
		}
		if len(item.Models) == 0 {
			return nil, fmt.Errorf("provider %q lists no models", item.ID)
		}
		seen := make(map[string]struct{}, len(item.Models))
		for _, model := range item.Models {
			if model == "" {
				return nil, fmt.Errorf("provider %q lists an empty model name", item.ID)
			}
			if _, dup := seen[model]; dup {
				return nil, fmt.Errorf("provider %q lists model %q twice", item.ID, model)
			}
			seen[model] = struct{}{}
		}
		byID[item.ID] = item
	}

	return &Catalog{items: append([]Descriptor(nil), items...), byID: byID}, nil
}

// List returns the providers in their declared order, used to render menus.
func (c *Catalog) List() []Descriptor {
	return append([]Descriptor(nil), c.items...)
}

// Get looks up a provider by identifier.
func (c *Catalog) Get(id string) (Descriptor, error) {
	item, ok := c.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	return item, nil
}

// Models returns the model list for the given provider.
func (c *Catalog) Models(id string) ([]string, error) {
	item, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), item.Models...), nil
}

// HasModel reports whether the provider exists and serves the given model.
func (c *Catalog) HasModel(id, model string) bool {
	item, ok := c.byID[id]
	if !ok {
		return false
	}
	for _, m := range item.Models {
		if m == model {
			return true
		}
	}
	return false
}
