package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pokedex/internal/catalog"
	"github.com/starford/pokedex/internal/pokeapi"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

var httpURL = regexp.MustCompile(`^https?://`)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	PokeAPI PokeAPIConfig     `yaml:"pokeapi"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Cache   CacheConfig       `yaml:"cache"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.PokeAPI.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// CatalogSettings combines the catalog and PokeAPI sections into catalog settings.
func (c *Config) CatalogSettings() catalog.Settings {
	return catalog.Settings{
		PageSize:           c.Catalog.PageSize,
		ScrollThreshold:    c.Catalog.ScrollThreshold,
		ScrollDebounce:     c.Catalog.ScrollDebounce,
		FetchConcurrency:   c.Catalog.FetchConcurrency,
		ArtworkURLTemplate: c.PokeAPI.ArtworkURLTemplate,
	}
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives logs in the tui and mcp modes, where stdout is taken.
	// Empty means stderr.
	LogFile     string        `yaml:"log_file"`
	SSEThrottle time.Duration `yaml:"sse_throttle"`
	HTTP        HTTPConfig    `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.SSEThrottle, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// PokeAPIConfig holds the remote API settings.
type PokeAPIConfig struct {
	BaseURL            string        `yaml:"base_url"`
	Timeout            time.Duration `yaml:"timeout"`
	ArtworkURLTemplate string        `yaml:"artwork_url_template"`
}

// Validate validates the PokeAPI configuration.
func (c *PokeAPIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.Match(httpURL)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.ArtworkURLTemplate, validation.Required, validation.Match(regexp.MustCompile(`%d`))),
	)
}

// CatalogConfig holds paging and scrolling settings.
type CatalogConfig struct {
	PageSize        int           `yaml:"page_size"`
	ScrollThreshold int           `yaml:"scroll_threshold"`
	ScrollDebounce  time.Duration `yaml:"scroll_debounce"`
	// FetchConcurrency bounds parallel record fetches per page; 0 means unbounded.
	FetchConcurrency int `yaml:"fetch_concurrency"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PageSize, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.ScrollThreshold, validation.Min(0)),
		validation.Field(&c.ScrollDebounce, validation.Min(time.Duration(0))),
		validation.Field(&c.FetchConcurrency, validation.Min(0)),
	)
}

// CacheConfig holds the optional on-disk response cache settings.
type CacheConfig struct {
	// Path of the SQLite file; empty disables the cache.
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

// Enabled reports whether a cache file is configured.
func (c *CacheConfig) Enabled() bool {
	return c.Path != ""
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	settings := catalog.DefaultSettings()
	return &Config{
		App: ApplicationConfig{
			LogLevel:    slog.LevelInfo,
			SSEThrottle: time.Second,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		PokeAPI: PokeAPIConfig{
			BaseURL:            pokeapi.DefaultBaseURL,
			Timeout:            10 * time.Second,
			ArtworkURLTemplate: catalog.DefaultArtworkURLTmpl,
		},
		Catalog: CatalogConfig{
			PageSize:         settings.PageSize,
			ScrollThreshold:  settings.ScrollThreshold,
			ScrollDebounce:   settings.ScrollDebounce,
			FetchConcurrency: settings.FetchConcurrency,
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
