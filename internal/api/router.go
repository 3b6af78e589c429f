package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pokedex/internal/catalog"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(cat *catalog.Catalog, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(cat)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Collection.
	r.Get("/rows", h.ListRows)
	r.Post("/pages/next", h.NextPage)
	r.Post("/viewport", h.Viewport)

	// Search.
	r.Get("/search", h.Search)

	// Details.
	r.Get("/records/{name}", h.GetRecord)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
