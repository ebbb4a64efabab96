package persona

import (
	"errors"
	"testing"
)

func TestNewCatalogSeed(t *testing.T) {
	catalog, err := NewCatalog(Seed())
	if err != nil {
		t.Fatalf("NewCatalog err: %v", err)
	}

	items := catalog.List()
	if len(items) != 15 {
		t.Fatalf("unexpected persona count: got %d want 15", len(items))
	}
	if items[0].ID != DefaultID {
		t.Fatalf("default persona should be listed first, got %s", items[0].ID)
	}

	p, err := catalog.Get("chef")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if p.Name != "Chef" {
		t.Fatalf("unexpected persona name: %s", p.Name)
	}
}

func TestNewCatalogRejectsBadSeeds(t *testing.T) {
	cases := []struct {
		name  string
		items []Persona
	}{
		{"empty", nil},
		{"empty id", []Persona{{ID: "", Name: "X", Prompt: "p"}}},
		{"empty prompt", []Persona{{ID: "x", Name: "X", Prompt: ""}}},
		{"duplicate id", []Persona{
			{ID: "x", Name: "X", Prompt: "p"},
			{ID: "x", Name: "Y", Prompt: "q"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCatalog(tc.items); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCatalogGetUnknown(t *testing.T) {
	catalog, err := NewCatalog(Seed())
	if err != nil {
		t.Fatalf("NewCatalog err: %v", err)
	}

	if _, err := catalog.Get("nonexistent"); !errors.Is(err, ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
	if catalog.Has("nonexistent") {
		t.Fatal("Has should be false for unknown persona")
	}
}
