package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
	"github.com/JustM3Sunny/kuku/internal/service/ai"
	"github.com/JustM3Sunny/kuku/internal/service/dispatch"
	sessionstore "github.com/JustM3Sunny/kuku/internal/service/session"
)

type echoClient struct{ id string }

func (e *echoClient) ProviderID() string { return e.id }

func (e *echoClient) SetModel(context.Context, string) error { return nil }

func (e *echoClient) Generate(_ context.Context, _ string, _ persona.Persona, text string) (string, error) {
	return "echo: " + text, nil
}

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()

	providers, err := provider.NewCatalog(provider.Seed(nil))
	if err != nil {
		t.Fatalf("provider catalog err: %v", err)
	}
	personas, err := persona.NewCatalog(persona.Seed())
	if err != nil {
		t.Fatalf("persona catalog err: %v", err)
	}

	registry := ai.NewRegistry()
	registry.Register(&echoClient{id: provider.IDGroq})

	store := sessionstore.NewStore(providers, personas)
	responder := ai.NewResponder(store, personas, registry, nil)
	dispatcher := dispatch.New(store, providers, personas, registry, responder, nil)

	r := chi.NewRouter()
	New(dispatcher).RegisterRoutes(r)
	return r
}

func createConversation(t *testing.T, r http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/conversations", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var body eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.ConversationID == "" {
		t.Fatal("expected a minted conversation id")
	}
	if body.Text == "" {
		t.Fatal("expected welcome text")
	}
	return body.ConversationID
}

func postEvent(t *testing.T, r http.Handler, conversationID string, payload eventRequest) (*httptest.ResponseRecorder, eventResponse) {
	t.Helper()

	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/conversations/"+conversationID+"/events", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	return resp, body
}

func TestConversationFlow(t *testing.T) {
	r := setupRouter(t)
	conversationID := createConversation(t, r)

	resp, body := postEvent(t, r, conversationID, eventRequest{
		Kind:  string(dispatch.KindSelect),
		Token: dispatch.ModelToken("groq", "llama-3.1-8b-instant"),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body.Text != "Model set to llama-3.1-8b-instant" {
		t.Fatalf("unexpected selection reply: %q", body.Text)
	}

	resp, body = postEvent(t, r, conversationID, eventRequest{
		Kind: string(dispatch.KindFreeText),
		Text: "hello",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body.Text != "echo: hello" {
		t.Fatalf("unexpected reply: %q", body.Text)
	}
}

func TestFreeTextBeforeModelSelection(t *testing.T) {
	r := setupRouter(t)
	conversationID := createConversation(t, r)

	resp, body := postEvent(t, r, conversationID, eventRequest{
		Kind: string(dispatch.KindFreeText),
		Text: "hello",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if body.Error == "" || body.Text == "" {
		t.Fatalf("expected error and guidance in body, got %+v", body)
	}
}

func TestFreeTextUnknownConversation(t *testing.T) {
	r := setupRouter(t)

	resp, _ := postEvent(t, r, "never-created", eventRequest{
		Kind: string(dispatch.KindFreeText),
		Text: "hello",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestInvalidSelection(t *testing.T) {
	r := setupRouter(t)
	conversationID := createConversation(t, r)

	resp, _ := postEvent(t, r, conversationID, eventRequest{
		Kind:  string(dispatch.KindSelect),
		Token: dispatch.ModelToken("gemini", "not-a-real-model"),
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestMalformedToken(t *testing.T) {
	r := setupRouter(t)
	conversationID := createConversation(t, r)

	resp, _ := postEvent(t, r, conversationID, eventRequest{
		Kind:  string(dispatch.KindSelect),
		Token: "model:groq:llama-3.1-8b-instant",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestInvalidBody(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/conversations/x/events", bytes.NewReader([]byte("{")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
