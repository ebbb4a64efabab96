package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
	"github.com/JustM3Sunny/kuku/internal/service/ai"
	"github.com/JustM3Sunny/kuku/internal/service/dispatch"
	"github.com/JustM3Sunny/kuku/pkg/utils"
)

// Handler exposes conversations over plain HTTP for web front-ends.
type Handler struct {
	dispatcher *dispatch.Dispatcher
}

// New creates the chat handler.
func New(dispatcher *dispatch.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// RegisterRoutes registers the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversations", h.handleCreateConversation)
	r.Post("/conversations/{conversationID}/events", h.handleEvent)
}

type eventRequest struct {
	Kind  string `json:"kind"`
	Token string `json:"token,omitempty"`
	Text  string `json:"text,omitempty"`
}

type eventResponse struct {
	ConversationID string         `json:"conversationId,omitempty"`
	Text           string         `json:"text,omitempty"`
	Menu           *dispatch.Menu `json:"menu,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// handleCreateConversation mints a conversation id and initializes its session.
func (h *Handler) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := uuid.NewString()

	outcome, err := h.dispatcher.Handle(r.Context(), dispatch.Event{
		ConversationID: conversationID,
		Kind:           dispatch.KindInitialize,
	})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to initialize conversation")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, eventResponse{
		ConversationID: conversationID,
		Text:           outcome.Text,
		Menu:           outcome.Menu,
	})
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var payload eventRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Kind == "" {
		utils.RespondError(w, http.StatusBadRequest, "kind is required")
		return
	}

	outcome, err := h.dispatcher.Handle(r.Context(), dispatch.Event{
		ConversationID: conversationID,
		Kind:           dispatch.Kind(payload.Kind),
		Token:          payload.Token,
		Text:           payload.Text,
	})

	resp := eventResponse{Text: outcome.Text, Menu: outcome.Menu}
	if err != nil {
		resp.Error = err.Error()
	}
	utils.RespondJSON(w, statusFor(err), resp)
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dispatch.ErrMalformedToken),
		errors.Is(err, provider.ErrInvalidSelection),
		errors.Is(err, provider.ErrUnknownProvider),
		errors.Is(err, persona.ErrUnknownPersona):
		return http.StatusBadRequest
	case errors.Is(err, ai.ErrNotInitialized),
		errors.Is(err, ai.ErrModelNotSelected):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
