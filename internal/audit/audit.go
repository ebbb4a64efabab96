package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Event is a structured observability record emitted by the core. Sinks are
// optional collaborators; a missing sink never affects correctness.
type Event struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversationId"`
	Kind           string            `json:"kind"`
	Payload        map[string]string `json:"payload,omitempty"`
	At             time.Time         `json:"at"`
}

// Sink receives audit events. Implementations must tolerate concurrent calls.
type Sink interface {
	Record(ctx context.Context, event Event)
}

// New stamps an event with a fresh id and timestamp.
func New(conversationID, kind string, payload map[string]string) Event {
	return Event{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Kind:           kind,
		Payload:        payload,
		At:             time.Now().UTC(),
	}
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Record(context.Context, Event) {}

// LogSink writes events to the process log.
type LogSink struct{}

func (LogSink) Record(_ context.Context, event Event) {
	log.Printf("[audit] conversation=%s kind=%s payload=%v", event.ConversationID, event.Kind, event.Payload)
}

// Record sends the event to the sink if one is configured.
func Record(ctx context.Context, sink Sink, event Event) {
	if sink == nil {
		return
	}
	sink.Record(ctx, event)
}
