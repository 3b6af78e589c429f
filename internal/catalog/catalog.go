// Package catalog implements the viewer core: incremental list loading, the
// record cache, detail and evolution resolution, search and the scroll trigger.
// It renders through the Renderer interface and knows nothing about the
// front-end drawing the result.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/pokedex/internal/metrics"
	"github.com/starford/pokedex/internal/models"
)

// Source is the remote data source.
type Source interface {
	ListPage(ctx context.Context, limit, offset int) (*models.Page, error)
	Record(ctx context.Context, url string) (*models.Record, error)
	RecordByName(ctx context.Context, name string) (*models.Record, error)
	Species(ctx context.Context, url string) (*models.Species, error)
	EvolutionChain(ctx context.Context, url string) (*models.EvolutionChain, error)
}

// Settings holds the tunables of the catalog.
type Settings struct {
	PageSize           int
	ScrollThreshold    int
	ScrollDebounce     time.Duration
	FetchConcurrency   int // 0 means one goroutine per entry
	ArtworkURLTemplate string
}

// DefaultSettings returns the settings of the original viewer.
func DefaultSettings() Settings {
	return Settings{
		PageSize:           20,
		ScrollThreshold:    50,
		ScrollDebounce:     150 * time.Millisecond,
		ArtworkURLTemplate: DefaultArtworkURLTmpl,
	}
}

// Option configures a Catalog.
type Option func(*deps)

type deps struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func buildDeps(opts []Option) deps {
	d := deps{logger: slog.Default()}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WithLogger sets the logger used by every component.
func WithLogger(l *slog.Logger) Option {
	return func(d *deps) {
		d.logger = l
	}
}

// WithMetrics enables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *deps) {
		d.metrics = m
	}
}

// Catalog wires the components around one State.
type Catalog struct {
	State    *State
	Screen   *Screen
	Loader   *Loader
	Resolver *Resolver
	Searcher *Searcher
	Scroll   *ScrollTrigger
}

// New builds a catalog over src. Updates go to an internal Screen and, when
// r is non-nil, to r as well.
func New(src Source, r Renderer, settings Settings, opts ...Option) *Catalog {
	if settings.PageSize <= 0 {
		settings.PageSize = DefaultSettings().PageSize
	}

	screen := NewScreen()
	var out Renderer = screen
	if r != nil {
		out = MultiRenderer{screen, r}
	}

	state := NewState()
	loader := NewLoader(state, src, out, settings, opts...)
	return &Catalog{
		State:    state,
		Screen:   screen,
		Loader:   loader,
		Resolver: NewResolver(state, src, out, settings, opts...),
		Searcher: NewSearcher(state, src, out, opts...),
		Scroll:   NewScrollTrigger(loader, settings, opts...),
	}
}

// Close stops the scroll trigger.
func (c *Catalog) Close() {
	c.Scroll.Stop()
}
