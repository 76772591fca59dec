package storycarousel

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"SITE_NAME", "SITE_URL", "ADDR", "DATABASE_PATH", "CONTENT_SOURCE", "FETCH_TIMEOUT", "PRESET_CACHE_TTL"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	want := SiteConfig{
		Name:           "Story Carousel",
		URL:            "http://localhost:3000",
		Addr:           ":3000",
		DatabasePath:   "data/carousel.db",
		ContentSource:  SourceLocal,
		FetchTimeout:   10 * time.Second,
		PresetCacheTTL: 5 * time.Minute,
	}
	cfg.AdminPassword, cfg.SessionSecret, cfg.CookieSecure = "", "", false
	cfg.WordPressURL, cfg.WordPressUser, cfg.WordPressAppPassword = "", "", ""
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SITE_URL", "https://stories.example.com/")
	t.Setenv("CONTENT_SOURCE", "wordpress")
	t.Setenv("WORDPRESS_URL", "https://wp.example.com")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.URL != "https://stories.example.com" {
		t.Errorf("URL = %q, want trailing slash trimmed", cfg.URL)
	}
	if cfg.ContentSource != SourceWordPress || cfg.WordPressURL != "https://wp.example.com" {
		t.Errorf("source = %q %q", cfg.ContentSource, cfg.WordPressURL)
	}
	if cfg.FetchTimeout != 3*time.Second || !cfg.CookieSecure {
		t.Errorf("timeout %v secure %v", cfg.FetchTimeout, cfg.CookieSecure)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "soon")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	base := SiteConfig{AdminPassword: "p", SessionSecret: "s"}
	base.setDefaults()

	tests := []struct {
		name    string
		mutate  func(*SiteConfig)
		wantErr bool
	}{
		{"ok", func(*SiteConfig) {}, false},
		{"no password", func(c *SiteConfig) { c.AdminPassword = "" }, true},
		{"no secret", func(c *SiteConfig) { c.SessionSecret = "" }, true},
		{"wordpress without url", func(c *SiteConfig) { c.ContentSource = SourceWordPress }, true},
		{"wordpress with url", func(c *SiteConfig) { c.ContentSource = SourceWordPress; c.WordPressURL = "https://wp.test" }, false},
		{"unknown source", func(c *SiteConfig) { c.ContentSource = "ftp" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
