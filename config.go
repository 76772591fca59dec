package storycarousel

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/eringen/storycarousel/carousel"
)

// Content sources.
const (
	SourceLocal     = "local"
	SourceWordPress = "wordpress"
)

// SiteConfig holds all configuration for a storycarousel site.
type SiteConfig struct {
	Name string `env:"SITE_NAME"` // Site name (default "Story Carousel")
	URL  string `env:"SITE_URL"`  // Canonical URL (default "http://localhost:3000")

	Addr         string `env:"ADDR"`          // Listen address (default ":3000")
	DatabasePath string `env:"DATABASE_PATH"` // SQLite path (default "data/carousel.db")

	AdminPassword string `env:"ADMIN_PASSWORD"`       // Required: editor login password
	SessionSecret string `env:"ADMIN_SESSION_SECRET"` // Required: session encryption secret
	CookieSecure  bool   `env:"COOKIE_SECURE"`        // Set true for HTTPS

	ContentSource        string `env:"CONTENT_SOURCE"`         // "local" (default) or "wordpress"
	WordPressURL         string `env:"WORDPRESS_URL"`          // Site root, required for the wordpress source
	WordPressUser        string `env:"WORDPRESS_USER"`         // Optional application password user
	WordPressAppPassword string `env:"WORDPRESS_APP_PASSWORD"` // Optional application password

	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT"`    // Per-run fetch bound (default 10s)
	PresetCacheTTL time.Duration `env:"PRESET_CACHE_TTL"` // Image size cache TTL (default 5min)
}

// LoadConfig reads SiteConfig from the environment.
func LoadConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Story Carousel"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/carousel.db"
	}
	if c.ContentSource == "" {
		c.ContentSource = SourceLocal
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.PresetCacheTTL == 0 {
		c.PresetCacheTTL = 5 * time.Minute
	}
}

func (c *SiteConfig) validate() error {
	if c.AdminPassword == "" {
		return fmt.Errorf("storycarousel: AdminPassword is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("storycarousel: SessionSecret is required")
	}
	switch c.ContentSource {
	case SourceLocal:
	case SourceWordPress:
		if c.WordPressURL == "" {
			return fmt.Errorf("storycarousel: WordPressURL is required for the wordpress source")
		}
	default:
		return fmt.Errorf("storycarousel: unknown content source %q", c.ContentSource)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for uploads and user-owned static assets
// (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithContentSource replaces the source selected by ContentSource.
func WithContentSource(src carousel.Source) Option {
	return func(a *App) {
		a.source = src
	}
}
