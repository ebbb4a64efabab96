package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/JustM3Sunny/kuku/internal/service/dispatch"
)

// Handler serves a live chat channel: inbound dispatch events as JSON
// frames, outcomes written back on the same connection.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	upgrader   websocket.Upgrader
}

// New creates the websocket handler.
func New(dispatcher *dispatch.Dispatcher) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{conversationID}", h.handleWebSocket)
}

type inboundFrame struct {
	Kind  string `json:"kind"`
	Token string `json:"token,omitempty"`
	Text  string `json:"text,omitempty"`
}

type outboundFrame struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	Menu      *dispatch.Menu `json:"menu,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for conversation=%s: %v", conversationID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] conversation=%s connected", conversationID)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] conversation=%s read failed: %v", conversationID, err)
			}
			return
		}

		outcome, handleErr := h.dispatcher.Handle(r.Context(), dispatch.Event{
			ConversationID: conversationID,
			Kind:           dispatch.Kind(frame.Kind),
			Token:          frame.Token,
			Text:           frame.Text,
		})

		out := outboundFrame{
			Type:      "outcome",
			Text:      outcome.Text,
			Menu:      outcome.Menu,
			Timestamp: time.Now().Unix(),
		}
		if handleErr != nil {
			out.Error = handleErr.Error()
		}

		if err := conn.WriteJSON(out); err != nil {
			log.Printf("[ws] conversation=%s write failed: %v", conversationID, err)
			return
		}
	}
}
