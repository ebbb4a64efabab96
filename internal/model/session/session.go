package session

import "time"

// State is the conversation lifecycle phase derived from the session fields.
type State int

const (
	// Uninitialized means the conversation has never sent a start event.
	Uninitialized State = iota
	// Initialized means the session exists but no model has been bound yet.
	Initialized
	// ModelBound means both a provider and one of its models are selected.
	ModelBound
)

// Session is the mutable per-conversation record of selected provider,
// model, and persona. Owned exclusively by the session store.
type Session struct {
	ConversationID string    `json:"conversationId"`
	ProviderID     string    `json:"providerId"`
	ModelID        string    `json:"modelId,omitempty"`
	PersonaID      string    `json:"personaId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// State derives the lifecycle phase. ModelID set implies ProviderID set,
// which the store enforces on every mutation.
func (s Session) State() State {
	switch {
	case s.ConversationID == "":
		return Uninitialized
	case s.ModelID == "":
		return Initialized
	default:
		return ModelBound
	}
}
