package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pokedex/internal/apperr"
	"github.com/starford/pokedex/internal/catalog"
)

// Handler holds API route handlers.
type Handler struct {
	cat *catalog.Catalog
}

// NewHandler creates a new Handler.
func NewHandler(cat *catalog.Catalog) *Handler {
	return &Handler{cat: cat}
}

// ListRows handles GET /api/rows.
//
//	@Summary		Current list rows in display order
//	@Tags			collection
//	@Produce		json
//	@Success		200	{object}	RowsResponse
//	@Security		BearerAuth
//	@Router			/rows [get]
func (h *Handler) ListRows(w http.ResponseWriter, _ *http.Request) {
	snap := h.cat.Screen.Snapshot()
	writeJSON(w, http.StatusOK, RowsResponse{
		Rows:    snap.Rows,
		Empty:   snap.Empty,
		Loading: snap.Loading,
		Count:   h.cat.State.Len(),
	})
}

// NextPage handles POST /api/pages/next.
//
//	@Summary		Load the next page of the collection
//	@Tags			collection
//	@Produce		json
//	@Success		200	{object}	PageResult
//	@Failure		409	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/pages/next [post]
func (h *Handler) NextPage(w http.ResponseWriter, r *http.Request) {
	// The page keeps loading if the client goes away.
	res, err := h.cat.Loader.LoadNextPage(context.WithoutCancel(r.Context()))
	if err != nil {
		if errors.Is(err, apperr.ErrPageInFlight) {
			writeError(w, http.StatusConflict, "page load already in flight")
		} else {
			writeError(w, http.StatusBadGateway, "page request failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Viewport handles POST /api/viewport.
//
//	@Summary		Report a scroll event
//	@Description	Debounced; loads the next page when the viewport settles near the bottom.
//	@Tags			collection
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ViewportRequest	true	"Viewport metrics"
//	@Success		202		{object}	StatusResponse
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/viewport [post]
func (h *Handler) Viewport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<10)
	var req ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.cat.Scroll.OnScroll(context.WithoutCancel(r.Context()), req.viewport())
	writeJSON(w, http.StatusAccepted, StatusResponse{Status: "accepted"})
}

// Search handles GET /api/search.
//
//	@Summary		Filter the collection by name
//	@Description	An empty query lists everything. Without a local match the query is looked up remotely by exact name.
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	false	"Name substring"
//	@Success		200	{object}	SearchResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	// The fallback fetch feeds the shared store and screen, so a client
	// disconnect must not abort it.
	res := h.cat.Searcher.Search(context.WithoutCancel(r.Context()), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, res)
}

// GetRecord handles GET /api/records/{name}.
//
//	@Summary		Show the details of a loaded record
//	@Tags			records
//	@Produce		json
//	@Param			name	path		string	true	"Record name"
//	@Success		200		{object}	DetailResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/records/{name} [get]
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "name")))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	res, err := h.cat.Resolver.ShowByName(context.WithoutCancel(r.Context()), name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("show record failed", slog.String("name", name), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}
