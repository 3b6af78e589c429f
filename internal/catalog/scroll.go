package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/pokedex/internal/apperr"
)

// Viewport describes the scroll position of the list. Units are pixels for a
// browser and rows for a terminal.
type Viewport struct {
	ScrollTop    int `json:"scroll_top"`
	ClientHeight int `json:"client_height"`
	ScrollHeight int `json:"scroll_height"`
}

// NearBottom reports whether the visible bottom edge is within threshold of
// the content bottom.
func (v Viewport) NearBottom(threshold int) bool {
	return v.ScrollTop+v.ClientHeight >= v.ScrollHeight-threshold
}

// ScrollTrigger debounces scroll events and loads the next page when the
// viewport settles near the end of the list.
type ScrollTrigger struct {
	loader    PageLoader
	delay     time.Duration
	threshold int
	deps

	mu    sync.Mutex
	timer *time.Timer
	last  Viewport
	ctx   context.Context
	fired chan struct{}
}

// NewScrollTrigger creates a trigger that calls loader.
func NewScrollTrigger(loader PageLoader, settings Settings, opts ...Option) *ScrollTrigger {
	return &ScrollTrigger{
		loader:    loader,
		delay:     settings.ScrollDebounce,
		threshold: settings.ScrollThreshold,
		deps:      buildDeps(opts),
	}
}

// OnScroll records a scroll event. Each event restarts the debounce delay;
// only the last event of a burst is evaluated. ctx is used for the page load
// and must outlive the request that delivered the event.
func (t *ScrollTrigger) OnScroll(ctx context.Context, v Viewport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = v
	t.ctx = ctx
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.fire)
		return
	}
	t.timer.Reset(t.delay)
}

// Fired returns a channel that receives after every evaluated burst. It is
// meant for callers that need to observe the trigger, such as tests.
func (t *ScrollTrigger) Fired() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired == nil {
		t.fired = make(chan struct{}, 1)
	}
	return t.fired
}

// Stop cancels a pending evaluation.
func (t *ScrollTrigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *ScrollTrigger) fire() {
	t.mu.Lock()
	v, ctx, fired := t.last, t.ctx, t.fired
	t.mu.Unlock()

	if v.NearBottom(t.threshold) {
		if _, err := t.loader.LoadNextPage(ctx); err != nil && !errors.Is(err, apperr.ErrPageInFlight) {
			t.logger.Warn("scroll-triggered page load failed", slog.String("error", err.Error()))
		}
	}

	if fired != nil {
		select {
		case fired <- struct{}{}:
		default:
		}
	}
}
