package catalog

import (
	"context"
	"log/slog"
	"strings"
)

// SearchResult describes how a query was answered.
type SearchResult struct {
	Query  string `json:"query"`
	Rows   []Row  `json:"rows"`
	Remote bool   `json:"remote"`
	Empty  string `json:"empty,omitempty"`
	// Superseded is set when a newer search started before the remote
	// fallback returned; the result was stored but not rendered.
	Superseded bool `json:"superseded,omitempty"`
}

// Searcher filters the collection store by name.
type Searcher struct {
	state  *State
	src    Source
	render Renderer
	deps
}

// NewSearcher creates a searcher.
func NewSearcher(state *State, src Source, r Renderer, opts ...Option) *Searcher {
	return &Searcher{
		state:  state,
		src:    src,
		render: r,
		deps:   buildDeps(opts),
	}
}

// NormalizeQuery lowercases and trims a query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Search re-renders the list for query. An empty query shows the whole store;
// otherwise names containing the query are shown in load order. With no local
// match the query is looked up remotely as an exact name, and a hit is added
// to the store and shown as the only row.
func (s *Searcher) Search(ctx context.Context, query string) SearchResult {
	gen := s.state.searchGen.Add(1)
	q := NormalizeQuery(query)
	res := SearchResult{Query: q}

	if q == "" {
		s.metrics.Searched("all")
		res.Rows = RowsView(s.state.Records(), s.state.IsSelected)
		s.render.ReplaceRows(res.Rows)
		return res
	}

	if matches := s.state.Filter(q); len(matches) > 0 {
		s.metrics.Searched("local")
		res.Rows = RowsView(matches, s.state.IsSelected)
		s.render.ReplaceRows(res.Rows)
		return res
	}

	res.Remote = true
	rec, err := s.src.RecordByName(ctx, q)
	if err != nil {
		s.metrics.Searched("none")
		s.logger.Info("search fallback found nothing",
			slog.String("query", q),
			slog.String("error", err.Error()))
		res.Rows = []Row{}
		res.Empty = NoResults
		if s.state.searchGen.Load() != gen {
			res.Superseded = true
			return res
		}
		s.render.ShowEmpty(NoResults)
		return res
	}

	s.metrics.Searched("remote")
	s.state.Append(rec)
	s.metrics.SetStoreSize(s.state.Len())
	res.Rows = []Row{RowView(rec, s.state.IsSelected(rec.ID))}
	if s.state.searchGen.Load() != gen {
		res.Superseded = true
		return res
	}
	s.render.ReplaceRows(res.Rows)
	return res
}
