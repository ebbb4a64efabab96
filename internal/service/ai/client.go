package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
)

// ErrModelNotSelected reports a generate call before any model was bound.
var ErrModelNotSelected = errors.New("model not selected")

// Client is the capability set every completion backend implements.
//
// SetModel records (and for stateful backends, acquires) the model binding
// shared by all conversations on this provider. Generate must honor the
// modelID passed by the caller: client instances are shared across
// conversations, so the pipeline re-asserts the conversation's own model on
// every call instead of trusting the last SetModel. An empty modelID falls
// back to the client's last-set model.
type Client interface {
	ProviderID() string
	SetModel(ctx context.Context, modelID string) error
	Generate(ctx context.Context, modelID string, p persona.Persona, text string) (string, error)
}

// ProviderError wraps an upstream failure with the originating provider id.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func upstreamError(providerID, message string, err error) *ProviderError {
	return &ProviderError{Provider: providerID, Message: message, Err: err}
}

// Registry maps provider ids to their shared client instances. Selection is
// by id through this static table, never by runtime type inspection.
type Registry struct {
	clients map[string]Client
	order   []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds a client under its provider id. Later registrations for the
// same id replace earlier ones.
func (r *Registry) Register(c Client) {
	id := c.ProviderID()
	if _, ok := r.clients[id]; !ok {
		r.order = append(r.order, id)
	}
	r.clients[id] = c
}

// Get returns the client for the given provider id.
func (r *Registry) Get(providerID string) (Client, error) {
	c, ok := r.clients[providerID]
	if !ok {
		return nil, fmt.Errorf("%w: no client registered for %q", provider.ErrUnknownProvider, providerID)
	}
	return c, nil
}

// IDs returns the registered provider ids in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}
