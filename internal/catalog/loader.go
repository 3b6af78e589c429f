package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/starford/pokedex/internal/apperr"
	"github.com/starford/pokedex/internal/models"
)

// PageResult summarizes one LoadNextPage call.
type PageResult struct {
	Offset     int `json:"offset"`
	Requested  int `json:"requested"`
	Loaded     int `json:"loaded"`
	Failed     int `json:"failed"`
	Duplicates int `json:"duplicates"`
}

// PageLoader loads the next page of the collection.
type PageLoader interface {
	LoadNextPage(ctx context.Context) (PageResult, error)
}

// Loader fetches pages of summaries and resolves each entry to a full record.
type Loader struct {
	state    *State
	src      Source
	render   Renderer
	pageSize int
	limit    int
	deps

	// emitMu keeps store appends and row renders in the same order.
	emitMu sync.Mutex
}

// NewLoader creates a loader.
func NewLoader(state *State, src Source, r Renderer, settings Settings, opts ...Option) *Loader {
	return &Loader{
		state:    state,
		src:      src,
		render:   r,
		pageSize: settings.PageSize,
		limit:    settings.FetchConcurrency,
		deps:     buildDeps(opts),
	}
}

// LoadNextPage fetches the page at the cursor and resolves its entries in
// parallel. Only one call runs at a time; a concurrent call returns
// apperr.ErrPageInFlight without doing anything.
//
// The cursor advances as soon as the page request succeeds. Entries whose
// record fetch fails are logged and skipped. Resolved records are appended to
// the store and rendered as rows in completion order.
func (l *Loader) LoadNextPage(ctx context.Context) (PageResult, error) {
	if !l.state.loading.CompareAndSwap(false, true) {
		return PageResult{}, apperr.ErrPageInFlight
	}
	defer l.state.loading.Store(false)

	lr, _ := l.render.(LoadingRenderer)
	if lr != nil {
		lr.PageLoading(true)
		defer lr.PageLoading(false)
	}

	offset := l.state.Cursor()
	res := PageResult{Offset: offset}

	page, err := l.src.ListPage(ctx, l.pageSize, offset)
	if err != nil {
		l.metrics.PageFetched(false)
		l.logger.Error("page fetch failed",
			slog.Int("offset", offset),
			slog.String("error", err.Error()))
		return res, fmt.Errorf("catalog: load page at offset %d: %w", offset, err)
	}
	l.metrics.PageFetched(true)
	l.state.advance(l.pageSize)
	res.Requested = len(page.Results)

	var loaded, failed, dups atomic.Int64
	var g errgroup.Group
	if l.limit > 0 {
		g.SetLimit(l.limit)
	}
	for _, item := range page.Results {
		g.Go(func() error {
			rec, err := l.src.Record(ctx, item.URL)
			if err != nil {
				failed.Add(1)
				l.metrics.RecordFetched(false)
				l.logger.Warn("record fetch failed",
					slog.String("name", item.Name),
					slog.String("error", err.Error()))
				return nil
			}
			l.metrics.RecordFetched(true)
			if l.emit(rec) {
				loaded.Add(1)
			} else {
				dups.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	res.Loaded = int(loaded.Load())
	res.Failed = int(failed.Load())
	res.Duplicates = int(dups.Load())
	l.metrics.SetStoreSize(l.state.Len())
	l.logger.Info("page loaded",
		slog.Int("offset", offset),
		slog.Int("requested", res.Requested),
		slog.Int("loaded", res.Loaded),
		slog.Int("failed", res.Failed))
	return res, nil
}

func (l *Loader) emit(rec *models.Record) bool {
	l.emitMu.Lock()
	defer l.emitMu.Unlock()
	if !l.state.Append(rec) {
		return false
	}
	l.render.AppendRow(RowView(rec, l.state.IsSelected(rec.ID)))
	return true
}
