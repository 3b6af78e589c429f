package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pokedex/internal/catalog"
)

// Row is one list entry (aliased from the domain layer).
type Row = catalog.Row

// PageResult summarizes a page load (aliased from the domain layer).
type PageResult = catalog.PageResult

// SearchResponse is a search outcome (aliased from the domain layer).
type SearchResponse = catalog.SearchResult

// DetailResponse is the final state of a detail view (aliased from the domain layer).
type DetailResponse = catalog.DetailResult

// RowsResponse is the current list pane.
type RowsResponse struct {
	Rows    []Row  `json:"rows" validate:"required"`
	Empty   string `json:"empty,omitempty" example:"No Pokémon found."`
	Loading bool   `json:"loading" example:"false"`
	Count   int    `json:"count" example:"20" validate:"required"`
}

// ViewportRequest is a scroll event reported by a client.
type ViewportRequest struct {
	ScrollTop    int `json:"scroll_top" example:"1200"`
	ClientHeight int `json:"client_height" example:"800" validate:"required"`
	ScrollHeight int `json:"scroll_height" example:"2040" validate:"required"`
}

// Validate validates the viewport request.
func (v *ViewportRequest) Validate() error {
	return validation.ValidateStruct(v,
		validation.Field(&v.ScrollTop, validation.Min(0)),
		validation.Field(&v.ClientHeight, validation.Min(0)),
		validation.Field(&v.ScrollHeight, validation.Min(0)),
	)
}

func (v *ViewportRequest) viewport() catalog.Viewport {
	return catalog.Viewport{
		ScrollTop:    v.ScrollTop,
		ClientHeight: v.ClientHeight,
		ScrollHeight: v.ScrollHeight,
	}
}

// StatusResponse acknowledges an accepted request.
type StatusResponse struct {
	Status string `json:"status" example:"accepted" validate:"required"`
}
