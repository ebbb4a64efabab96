package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/JustM3Sunny/kuku/internal/audit"
	"github.com/JustM3Sunny/kuku/internal/model/persona"
	sessionstore "github.com/JustM3Sunny/kuku/internal/service/session"
)

// ErrNotInitialized reports free text from a conversation that never sent
// the start event.
var ErrNotInitialized = errors.New("conversation not initialized")

// ResponseError wraps an upstream provider failure at the pipeline boundary.
// The core never retries: providers are not assumed idempotent-safe, and any
// retry policy belongs to the transport layer.
type ResponseError struct {
	ConversationID string
	Provider       string
	Err            error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response failed for conversation %s via %s: %v", e.ConversationID, e.Provider, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// Responder routes free text through the conversation's bound provider
// client and normalizes failures.
type Responder struct {
	store    *sessionstore.Store
	personas *persona.Catalog
	registry *Registry
	sink     audit.Sink
}

// NewResponder wires the response pipeline. The sink may be nil.
func NewResponder(store *sessionstore.Store, personas *persona.Catalog, registry *Registry, sink audit.Sink) *Responder {
	return &Responder{
		store:    store,
		personas: personas,
		registry: registry,
		sink:     sink,
	}
}

// Respond generates a reply for the conversation's current provider, model,
// and persona. No session-store lock is held across the provider call: the
// session is copied out first, and the recorded model id is re-asserted on
// the shared client.
func (r *Responder) Respond(ctx context.Context, conversationID, text string) (string, error) {
	sess, err := r.store.Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return "", ErrNotInitialized
		}
		return "", err
	}

	if sess.ModelID == "" {
		return "", ErrModelNotSelected
	}

	// The store only records persona ids the catalog has validated.
	p, err := r.personas.Get(sess.PersonaID)
	if err != nil {
		return "", err
	}

	client, err := r.registry.Get(sess.ProviderID)
	if err != nil {
		return "", err
	}

	reply, err := client.Generate(ctx, sess.ModelID, p, text)
	if err != nil {
		audit.Record(ctx, r.sink, audit.New(conversationID, "generate.error", map[string]string{
			"provider": sess.ProviderID,
			"model":    sess.ModelID,
			"error":    err.Error(),
		}))
		return "", &ResponseError{ConversationID: conversationID, Provider: sess.ProviderID, Err: err}
	}

	log.Printf("[ai] generated reply for conversation=%s provider=%s model=%s persona=%s length=%d",
		conversationID, sess.ProviderID, sess.ModelID, sess.PersonaID, len(reply))

	audit.Record(ctx, r.sink, audit.New(conversationID, "generate.ok", map[string]string{
		"provider": sess.ProviderID,
		"model":    sess.ModelID,
		"persona":  sess.PersonaID,
	}))

	return reply, nil
}
