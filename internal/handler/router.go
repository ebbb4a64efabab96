package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	catalogHandler "github.com/JustM3Sunny/kuku/internal/handler/catalog"
	chatHandler "github.com/JustM3Sunny/kuku/internal/handler/chat"
	wsHandler "github.com/JustM3Sunny/kuku/internal/handler/ws"
	middlewarePkg "github.com/JustM3Sunny/kuku/internal/middleware"
	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
	"github.com/JustM3Sunny/kuku/internal/service/dispatch"
)

// NewRouter wires HTTP routes to the dispatcher and catalogs.
func NewRouter(providers *provider.Catalog, personas *persona.Catalog, dispatcher *dispatch.Dispatcher) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		catalogHandler.New(providers, personas).RegisterRoutes(api)
		chatHandler.New(dispatcher).RegisterRoutes(api)
		wsHandler.New(dispatcher).RegisterRoutes(api)
	})

	return r
}
