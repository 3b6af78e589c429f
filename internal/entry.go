// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/pokedex/internal/api"
	"github.com/starford/pokedex/internal/catalog"
	"github.com/starford/pokedex/internal/mcpserver"
	"github.com/starford/pokedex/internal/metrics"
	"github.com/starford/pokedex/internal/pokeapi"
	"github.com/starford/pokedex/internal/respcache"
	"github.com/starford/pokedex/internal/sse"
	"github.com/starford/pokedex/internal/tui"
	pkgconfig "github.com/starford/pokedex/pkg/config"
)

// Mode selects the front-end.
type Mode string

// Front-ends.
const (
	ModeServe Mode = "serve"
	ModeTUI   Mode = "tui"
	ModeMCP   Mode = "mcp"
)

// runtime is what every front-end shares.
type runtime struct {
	cfg      *Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	source   *pokeapi.Client
	settings catalog.Settings
}

func (rt *runtime) newCatalog(r catalog.Renderer, settings catalog.Settings) *catalog.Catalog {
	return catalog.New(rt.source, r, settings,
		catalog.WithLogger(rt.logger),
		catalog.WithMetrics(rt.metrics))
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{mode: ModeServe, version: "dev"}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. The level can change on config reload.
	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)
	out, closeLog, err := logOutput(app.mode, cfg.App.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("mode", string(app.mode)),
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("pokeapi_base_url", cfg.PokeAPI.BaseURL),
		slog.String("cache_path", cfg.Cache.Path),
		slog.Int("page_size", cfg.Catalog.PageSize),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.New(),
		settings: cfg.CatalogSettings(),
	}

	clientOpts := []pokeapi.Option{
		pokeapi.WithTimeout(cfg.PokeAPI.Timeout),
		pokeapi.WithLogger(logger),
	}
	if cfg.Cache.Enabled() {
		db, err := respcache.Open(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("init response cache: %w", err)
		}
		defer db.Close()

		cache := respcache.New(db, cfg.Cache.TTL)
		if n, err := cache.Prune(); err != nil {
			logger.Warn("response cache prune failed", slog.String("error", err.Error()))
		} else if n > 0 {
			logger.Info("response cache pruned", slog.Int64("removed", n))
		}
		clientOpts = append(clientOpts, pokeapi.WithCache(cache))
	}
	rt.source = pokeapi.New(cfg.PokeAPI.BaseURL, clientOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if app.configPath != "" {
		g.Go(func() error {
			err := pkgconfig.Watch(gCtx, app.configPath, reloadLogLevel(app.configPath, level, logger))
			if err != nil {
				logger.Warn("config watch stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		// Whichever front-end returns first ends the watcher too.
		defer cancel()
		switch app.mode {
		case ModeTUI:
			return runTUI(gCtx, rt)
		case ModeMCP:
			return runMCP(gCtx, rt, app.version)
		default:
			return runServe(gCtx, rt)
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped successfully")
	return nil
}

// logOutput returns where logs go. The server logs to stdout; the TUI and MCP
// modes own stdout, so they log to LogFile, or stderr for MCP and nowhere for
// the TUI when no file is set.
func logOutput(mode Mode, file string) (io.Writer, func(), error) {
	if mode == ModeServe {
		return os.Stdout, func() {}, nil
	}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	if mode == ModeTUI {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

func reloadLogLevel(path string, level *slog.LevelVar, logger *slog.Logger) func() {
	return func() {
		next := NewDefaultConfig()
		if _, err := pkgconfig.LoadIfExists(path, next); err != nil {
			logger.Warn("config reload failed", slog.String("error", err.Error()))
			return
		}
		if next.App.LogLevel == level.Level() {
			return
		}
		level.Set(next.App.LogLevel)
		logger.Info("Log level changed", slog.String("log_level", next.App.LogLevel.String()))
	}
}

func runServe(ctx context.Context, rt *runtime) error {
	cfg, logger := rt.cfg, rt.logger

	// SSE broker.
	broker := sse.NewBroker(cfg.App.SSEThrottle)

	var cat *catalog.Catalog
	pub := sse.NewPublisher(broker, func() int { return cat.State.Len() })
	cat = rt.newCatalog(pub, rt.settings)
	defer cat.Close()

	// Ready once the first page has been attempted.
	var ready atomic.Bool

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", rt.metrics.Handler())

	// Mount API routes under /api, SSE included.
	r.Mount("/api", api.NewRouter(cat, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Initial page, as on first page view.
	g.Go(func() error {
		defer ready.Store(true)
		if _, err := cat.Loader.LoadNextPage(gCtx); err != nil {
			logger.Warn("initial page load failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Closing the broker ends open event streams so Shutdown can drain.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	return g.Wait()
}

func runTUI(ctx context.Context, rt *runtime) error {
	n := &tui.Notifier{}
	settings := rt.settings
	settings.ScrollThreshold = tui.RowThreshold
	cat := rt.newCatalog(n, settings)
	defer cat.Close()

	return tui.Run(ctx, cat, n)
}

func runMCP(ctx context.Context, rt *runtime, version string) error {
	cat := rt.newCatalog(nil, rt.settings)
	defer cat.Close()

	rt.logger.Info("Starting MCP server on stdio")
	errCh := make(chan error, 1)
	go func() {
		errCh <- mcpserver.New(cat, version).ServeStdio()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}
