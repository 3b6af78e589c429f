package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/pokedex/internal/apperr"
	"github.com/starford/pokedex/internal/models"
)

// DetailResult is the final state of one detail view.
type DetailResult struct {
	Detail           Detail     `json:"detail"`
	Evolution        *Evolution `json:"evolution,omitempty"`
	EvolutionMessage string     `json:"evolution_message,omitempty"`
	FromCache        bool       `json:"from_cache"`
	// Superseded is set when another detail view started before this one
	// finished; its late updates were not rendered.
	Superseded bool `json:"superseded,omitempty"`
}

// Resolver renders the detail view of a record and resolves its species and
// evolution chain.
type Resolver struct {
	state       *State
	src         Source
	render      Renderer
	artworkTmpl string
	deps
}

// NewResolver creates a resolver.
func NewResolver(state *State, src Source, r Renderer, settings Settings, opts ...Option) *Resolver {
	return &Resolver{
		state:       state,
		src:         src,
		render:      r,
		artworkTmpl: settings.ArtworkURLTemplate,
		deps:        buildDeps(opts),
	}
}

// ShowByName shows the details of a record already in the collection store.
func (r *Resolver) ShowByName(ctx context.Context, name string) (DetailResult, error) {
	rec, ok := r.state.FindByName(name)
	if !ok {
		return DetailResult{}, fmt.Errorf("catalog: record %q: %w", name, apperr.ErrNotFound)
	}
	return r.ShowDetails(ctx, rec), nil
}

// ShowDetails selects rec and renders its detail view immediately, then
// resolves the species line and the evolution chain, rendering each stage as
// it completes. Failures render explicit fallback texts and never escape.
func (r *Resolver) ShowDetails(ctx context.Context, rec *models.Record) DetailResult {
	gen := r.state.detailGen.Add(1)
	r.state.Select(rec.ID)

	var res DetailResult
	if cached, ok := r.state.Cached(rec.Name); ok {
		r.metrics.CacheLookup(true)
		res.FromCache = true
		res.Detail = DetailView(cached)
		r.render.ShowDetail(res.Detail)
		rec = cached
	} else {
		r.metrics.CacheLookup(false)
		res.Detail = DetailView(rec)
		r.render.ShowDetail(res.Detail)
		rec = r.state.CacheRecord(rec)
	}

	current := func() bool {
		if r.state.detailGen.Load() == gen {
			return true
		}
		res.Superseded = true
		return false
	}

	species, err := r.src.Species(ctx, rec.Species.URL)
	if err != nil {
		r.metrics.DetailStage("species", false)
		r.logger.Warn("species fetch failed",
			slog.String("name", rec.Name),
			slog.String("error", err.Error()))
		res.Detail.Species = SpeciesUnknown
		res.EvolutionMessage = EvolutionUnavailable
		if current() {
			r.render.ShowSpecies(SpeciesUnknown)
			r.render.ShowEvolutionUnavailable(EvolutionUnavailable)
		}
		return res
	}
	r.metrics.DetailStage("species", true)
	res.Detail.Species = SpeciesText(species)
	if !current() {
		return res
	}
	r.render.ShowSpecies(res.Detail.Species)

	chain, err := r.src.EvolutionChain(ctx, species.EvolutionChain.URL)
	if err != nil {
		r.metrics.DetailStage("evolution", false)
		r.logger.Warn("evolution chain fetch failed",
			slog.String("name", rec.Name),
			slog.String("error", err.Error()))
		res.EvolutionMessage = EvolutionUnavailable
		if current() {
			r.render.ShowEvolutionUnavailable(EvolutionUnavailable)
		}
		return res
	}
	r.metrics.DetailStage("evolution", true)

	ev := EvolutionView(ChainNames(&chain.Chain), r.state.FindByName, r.artworkTmpl)
	res.Evolution = &ev
	if current() {
		r.render.ShowEvolution(ev)
	}
	return res
}
