package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

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

func dialTestServer(t *testing.T) (*websocket.Conn, func()) {
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
	srv := httptest.NewServer(r)

	wsURL := strings.Replace(srv.URL, "http", "ws", 1) + "/ws/chat1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial err: %v", err)
	}

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func exchange(t *testing.T, conn *websocket.Conn, frame inboundFrame) outboundFrame {
	t.Helper()

	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("write err: %v", err)
	}
	var out outboundFrame
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read err: %v", err)
	}
	return out
}

func TestWebSocketChatFlow(t *testing.T) {
	conn, cleanup := dialTestServer(t)
	defer cleanup()

	out := exchange(t, conn, inboundFrame{Kind: string(dispatch.KindInitialize)})
	if out.Error != "" {
		t.Fatalf("initialize returned error: %s", out.Error)
	}
	if out.Text == "" {
		t.Fatal("expected welcome text")
	}

	out = exchange(t, conn, inboundFrame{
		Kind:  string(dispatch.KindSelect),
		Token: dispatch.ModelToken("groq", "gemma2-9b-it"),
	})
	if out.Error != "" {
		t.Fatalf("selection returned error: %s", out.Error)
	}

	out = exchange(t, conn, inboundFrame{Kind: string(dispatch.KindFreeText), Text: "hello"})
	if out.Text != "echo: hello" {
		t.Fatalf("unexpected reply: %q", out.Text)
	}
}

func TestWebSocketMenuFrame(t *testing.T) {
	conn, cleanup := dialTestServer(t)
	defer cleanup()

	exchange(t, conn, inboundFrame{Kind: string(dispatch.KindInitialize)})

	out := exchange(t, conn, inboundFrame{Kind: string(dispatch.KindProviderMenu)})
	if out.Menu == nil {
		t.Fatal("expected menu frame")
	}
	if len(out.Menu.Rows) == 0 {
		t.Fatal("expected menu rows")
	}
}

func TestWebSocketRejectedEventCarriesError(t *testing.T) {
	conn, cleanup := dialTestServer(t)
	defer cleanup()

	exchange(t, conn, inboundFrame{Kind: string(dispatch.KindInitialize)})

	out := exchange(t, conn, inboundFrame{Kind: string(dispatch.KindFreeText), Text: "too soon"})
	if out.Error == "" {
		t.Fatal("expected error on free text before model selection")
	}
	if out.Text == "" {
		t.Fatal("expected corrective guidance text")
	}
}
