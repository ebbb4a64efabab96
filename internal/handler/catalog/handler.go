package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
	"github.com/JustM3Sunny/kuku/pkg/utils"
)

// Handler serves the read-only persona and provider catalogs.
type Handler struct {
	providers *provider.Catalog
	personas  *persona.Catalog
}

// New creates the catalog handler.
func New(providers *provider.Catalog, personas *persona.Catalog) *Handler {
	return &Handler{providers: providers, personas: personas}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
	r.Get("/providers", h.handleListProviders)
	r.Get("/providers/{providerID}/models", h.handleListModels)
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}

func (h *Handler) handleListProviders(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.providers.List())
}

func (h *Handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")

	models, err := h.providers.Models(providerID)
	if err != nil {
		if errors.Is(err, provider.ErrUnknownProvider) {
			utils.RespondError(w, http.StatusNotFound, "provider not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to list models")
		return
	}

	utils.RespondJSON(w, http.StatusOK, models)
}
