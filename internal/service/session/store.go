package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
	"github.com/JustM3Sunny/kuku/internal/model/session"
)

// ErrNotFound reports a lookup for a conversation that never initialized.
var ErrNotFound = errors.New("session not found")

// Store owns all per-conversation session state. Mutations for the same
// conversation are linearized through a per-key mutex; distinct
// conversations proceed fully concurrently. The store-level mutex only
// guards the entry map itself.
type Store struct {
	providers *provider.Catalog
	personas  *persona.Catalog

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session session.Session
}

// NewStore bootstraps the in-memory session store.
func NewStore(providers *provider.Catalog, personas *persona.Catalog) *Store {
	return &Store{
		providers: providers,
		personas:  personas,
		entries:   make(map[string]*entry),
	}
}

func (s *Store) entryFor(conversationID string, create bool) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[conversationID]
	if !ok && create {
		e = &entry{}
		s.entries[conversationID] = e
	}
	return e
}

func defaultSession(conversationID string, now time.Time) session.Session {
	return session.Session{
		ConversationID: conversationID,
		ProviderID:     provider.DefaultID,
		PersonaID:      persona.DefaultID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// GetOrCreate returns the existing session or creates one with the default
// provider, no model, and the default persona. Idempotent per conversation.
func (s *Store) GetOrCreate(_ context.Context, conversationID string) (session.Session, error) {
	if conversationID == "" {
		return session.Session{}, ErrNotFound
	}

	e := s.entryFor(conversationID, true)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.ConversationID == "" {
		e.session = defaultSession(conversationID, time.Now().UTC())
	}
	return e.session, nil
}

// Reset recreates the session with defaults, discarding any prior selection.
// Used by the explicit initialize event.
func (s *Store) Reset(_ context.Context, conversationID string) (session.Session, error) {
	if conversationID == "" {
		return session.Session{}, ErrNotFound
	}

	e := s.entryFor(conversationID, true)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session = defaultSession(conversationID, time.Now().UTC())
	return e.session, nil
}

// Get retrieves a session without creating one.
func (s *Store) Get(_ context.Context, conversationID string) (session.Session, error) {
	e := s.entryFor(conversationID, false)
	if e == nil {
		return session.Session{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.ConversationID == "" {
		return session.Session{}, ErrNotFound
	}
	return e.session, nil
}

// SetProviderAndModel updates both selection fields together. The pair is
// validated against the provider catalog first; on rejection the session is
// left untouched.
func (s *Store) SetProviderAndModel(_ context.Context, conversationID, providerID, modelID string) (session.Session, error) {
	if _, err := s.providers.Get(providerID); err != nil {
		return session.Session{}, err
	}
	if !s.providers.HasModel(providerID, modelID) {
		return session.Session{}, fmt.Errorf("%w: model %q is not available for provider %q", provider.ErrInvalidSelection, modelID, providerID)
	}

	e := s.entryFor(conversationID, false)
	if e == nil {
		return session.Session{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.ConversationID == "" {
		return session.Session{}, ErrNotFound
	}

	e.session.ProviderID = providerID
	e.session.ModelID = modelID
	e.session.UpdatedAt = time.Now().UTC()
	return e.session, nil
}

// SetPersona updates the persona selection.
func (s *Store) SetPersona(_ context.Context, conversationID, personaID string) (session.Session, error) {
	if !s.personas.Has(personaID) {
		return session.Session{}, fmt.Errorf("%w: %q", persona.ErrUnknownPersona, personaID)
	}

	e := s.entryFor(conversationID, false)
	if e == nil {
		return session.Session{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.ConversationID == "" {
		return session.Session{}, ErrNotFound
	}

	e.session.PersonaID = personaID
	e.session.UpdatedAt = time.Now().UTC()
	return e.session, nil
}
