// Package pokeapi is a typed client for the PokeAPI REST endpoints the viewer consumes.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starford/pokedex/internal/apperr"
	"github.com/starford/pokedex/internal/models"
	"github.com/starford/pokedex/internal/respcache"
)

// DefaultBaseURL is the public PokeAPI root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// DefaultTimeout bounds each request made by the default HTTP client.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps a single response body.
const maxBodyBytes = 8 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pokeapi: GET %s: status %d", e.URL, e.StatusCode)
}

// Is reports 404 responses as apperr.ErrNotFound and everything else as apperr.ErrUpstream.
func (e *StatusError) Is(target error) bool {
	if target == apperr.ErrNotFound {
		return e.StatusCode == http.StatusNotFound
	}
	return target == apperr.ErrUpstream
}

// Client fetches and decodes PokeAPI resources.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	cache   respcache.Store
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client. It
// has no effect when WithHTTPClient supplies the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCache enables the response cache.
func WithCache(s respcache.Store) Option {
	return func(c *Client) {
		c.cache = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client rooted at baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// ListPage fetches one page of summary entries.
func (c *Client) ListPage(ctx context.Context, limit, offset int) (*models.Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var page models.Page
	if err := c.getJSON(ctx, c.baseURL+"/pokemon?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Record fetches a full record by its resource URL.
func (c *Client) Record(ctx context.Context, resourceURL string) (*models.Record, error) {
	var rec models.Record
	if err := c.getJSON(ctx, resourceURL, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecordByName fetches a full record by its exact name.
func (c *Client) RecordByName(ctx context.Context, name string) (*models.Record, error) {
	return c.Record(ctx, c.baseURL+"/pokemon/"+url.PathEscape(name))
}

// Species fetches a species record by URL.
func (c *Client) Species(ctx context.Context, resourceURL string) (*models.Species, error) {
	var sp models.Species
	if err := c.getJSON(ctx, resourceURL, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

// EvolutionChain fetches an evolution chain by URL.
func (c *Client) EvolutionChain(ctx context.Context, resourceURL string) (*models.EvolutionChain, error) {
	var ch models.EvolutionChain
	if err := c.getJSON(ctx, resourceURL, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	if c.cache != nil {
		body, ok, err := c.cache.Get(rawURL)
		if err != nil {
			c.logger.Warn("response cache read failed", slog.String("url", rawURL), slog.String("error", err.Error()))
		} else if ok && json.Unmarshal(body, v) == nil {
			return nil
		}
	}

	body, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("pokeapi: decode %s: %w", rawURL, err)
	}

	if c.cache != nil {
		if err := c.cache.Put(rawURL, body); err != nil {
			c.logger.Warn("response cache write failed", slog.String("url", rawURL), slog.String("error", err.Error()))
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("pokeapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pokedex")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pokeapi: GET %s: %w: %w", rawURL, apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("pokeapi: read %s: %w", rawURL, err)
	}
	return body, nil
}
