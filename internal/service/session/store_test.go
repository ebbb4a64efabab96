package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
	"github.com/JustM3Sunny/kuku/internal/model/session"
	sessionstore "github.com/JustM3Sunny/kuku/internal/service/session"
)

func newStore(t *testing.T) *sessionstore.Store {
	t.Helper()

	providers, err := provider.NewCatalog(provider.Seed(nil))
	if err != nil {
		t.Fatalf("provider catalog err: %v", err)
	}
	personas, err := persona.NewCatalog(persona.Seed())
	if err != nil {
		t.Fatalf("persona catalog err: %v", err)
	}
	return sessionstore.NewStore(providers, personas)
}

func TestGetOrCreateDefaults(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "chat1")
	if err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}

	if sess.ProviderID != provider.DefaultID {
		t.Fatalf("unexpected default provider: %s", sess.ProviderID)
	}
	if sess.ModelID != "" {
		t.Fatalf("new session should have no model, got %s", sess.ModelID)
	}
	if sess.PersonaID != persona.DefaultID {
		t.Fatalf("unexpected default persona: %s", sess.PersonaID)
	}
	if sess.State() != session.Initialized {
		t.Fatalf("unexpected state: %v", sess.State())
	}

	again, err := store.GetOrCreate(ctx, "chat1")
	if err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}
	if again.CreatedAt != sess.CreatedAt {
		t.Fatal("GetOrCreate should be idempotent for the same conversation")
	}
}

func TestGetMissing(t *testing.T) {
	store := newStore(t)

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetProviderAndModel(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "chat1"); err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}

	sess, err := store.SetProviderAndModel(ctx, "chat1", "groq", "llama-3.1-8b-instant")
	if err != nil {
		t.Fatalf("SetProviderAndModel err: %v", err)
	}
	if sess.ProviderID != "groq" || sess.ModelID != "llama-3.1-8b-instant" {
		t.Fatalf("unexpected selection: %s/%s", sess.ProviderID, sess.ModelID)
	}
	if sess.State() != session.ModelBound {
		t.Fatalf("unexpected state: %v", sess.State())
	}
}

func TestSetProviderAndModelInvalidLeavesSessionUnchanged(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "chat1"); err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}

	if _, err := store.SetProviderAndModel(ctx, "chat1", "gemini", "not-a-real-model"); !errors.Is(err, provider.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
	if _, err := store.SetProviderAndModel(ctx, "chat1", "openai", "gpt-4"); !errors.Is(err, provider.ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}

	sess, err := store.Get(ctx, "chat1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if sess.ProviderID != provider.DefaultID || sess.ModelID != "" {
		t.Fatalf("rejected selection mutated session: %s/%s", sess.ProviderID, sess.ModelID)
	}
}

func TestSetProviderAndModelWithoutSession(t *testing.T) {
	store := newStore(t)

	if _, err := store.SetProviderAndModel(context.Background(), "chat2", "groq", "llama-3.1-8b-instant"); !errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetPersona(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "chat1"); err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}

	sess, err := store.SetPersona(ctx, "chat1", "chef")
	if err != nil {
		t.Fatalf("SetPersona err: %v", err)
	}
	if sess.PersonaID != "chef" {
		t.Fatalf("unexpected persona: %s", sess.PersonaID)
	}

	if _, err := store.SetPersona(ctx, "chat1", "nonexistent"); !errors.Is(err, persona.ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
}

func TestResetDiscardsSelection(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "chat1"); err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}
	if _, err := store.SetProviderAndModel(ctx, "chat1", "groq", "gemma2-9b-it"); err != nil {
		t.Fatalf("SetProviderAndModel err: %v", err)
	}

	sess, err := store.Reset(ctx, "chat1")
	if err != nil {
		t.Fatalf("Reset err: %v", err)
	}
	if sess.ModelID != "" || sess.PersonaID != persona.DefaultID {
		t.Fatalf("reset session should carry defaults, got %s/%s", sess.ModelID, sess.PersonaID)
	}
}

// Selections for distinct conversations on the same provider must not
// interfere with one another.
func TestConcurrentSelectionsAcrossConversations(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	providers, _ := provider.NewCatalog(provider.Seed(nil))
	models, err := providers.Models("groq")
	if err != nil {
		t.Fatalf("Models err: %v", err)
	}

	const rounds = 50
	var wg sync.WaitGroup
	for i := 0; i < len(models); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conversationID := fmt.Sprintf("chat-%d", i)
			for r := 0; r < rounds; r++ {
				if _, err := store.GetOrCreate(ctx, conversationID); err != nil {
					t.Errorf("GetOrCreate err: %v", err)
					return
				}
				if _, err := store.SetProviderAndModel(ctx, conversationID, "groq", models[i]); err != nil {
					t.Errorf("SetProviderAndModel err: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < len(models); i++ {
		sess, err := store.Get(ctx, fmt.Sprintf("chat-%d", i))
		if err != nil {
			t.Fatalf("Get err: %v", err)
		}
		if sess.ModelID != models[i] {
			t.Fatalf("conversation %d recorded %s, want %s", i, sess.ModelID, models[i])
		}
		if !providers.HasModel(sess.ProviderID, sess.ModelID) {
			t.Fatalf("session invariant violated: %s/%s", sess.ProviderID, sess.ModelID)
		}
	}
}
