// Package storycarousel is a small publishing service for story carousel
// blocks built with Go, Echo, and templ. It stores block instances, renders
// them on public pages, and serves an editor with a live preview.
//
// Users may provide their own templ components via the ViewFuncs struct;
// DefaultViews supplies the stock pages.
package storycarousel

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/storycarousel/carousel"
	"github.com/eringen/storycarousel/views"
	"github.com/eringen/storycarousel/wordpress"
)

// ViewFuncs holds the templ components the handlers render. Swapping one
// changes a page without touching handler logic.
type ViewFuncs struct {
	BlockPage   func(site views.Site, title string, body templ.Component) templ.Component
	PostPage    func(site views.Site, post views.Post) templ.Component
	Login       func(site views.Site, showError bool, csrfToken string) templ.Component
	Dashboard   func(site views.Site, d views.Dashboard, csrfToken string) templ.Component
	Editor      func(site views.Site, e views.Editor, csrfToken string) templ.Component
	NotFound    func(site views.Site) templ.Component
	ServerError func(site views.Site) templ.Component
}

// DefaultViews returns the stock page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		BlockPage:   views.BlockPage,
		PostPage:    views.PostPage,
		Login:       views.Login,
		Dashboard:   views.DashboardPage,
		Editor:      views.EditorPage,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App is the central application. It wires together the store, preset
// cache, content source, fetch pipeline, handlers, and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Presets  *PresetCache
	Pipeline *carousel.Pipeline
	Views    ViewFuncs

	source       carousel.Source
	previews     *previewSessions
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the database, selects the content source, and registers
// middleware and routes. Start calls it; tools that only render use it
// directly.
func (a *App) Init() error {
	if err := a.Config.validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("storycarousel: init store: %w", err)
	}
	a.Store = store
	a.Presets = NewPresetCache(a.Store, a.Config.PresetCacheTTL)

	if a.source == nil {
		a.source = a.newSource()
	}
	a.Pipeline = &carousel.Pipeline{
		Source:  a.source,
		Logger:  a.Echo.Logger,
		Timeout: a.Config.FetchTimeout,
	}
	a.previews = newPreviewSessions(a.Pipeline.FetchAndEnrich)

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and runs the server until it stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) newSource() carousel.Source {
	if a.Config.ContentSource == SourceWordPress {
		var opts []wordpress.Option
		if a.Config.WordPressUser != "" {
			opts = append(opts, wordpress.WithAppPassword(a.Config.WordPressUser, a.Config.WordPressAppPassword))
		}
		return wordpress.New(a.Config.WordPressURL, opts...)
	}
	return NewLocalSource(a.Store, a.Config.URL)
}

// ContentTypes lists the types the editor offers. Sources that cannot list
// them offer only "post".
func (a *App) ContentTypes(ctx context.Context) []carousel.ContentType {
	fallback := []carousel.ContentType{{Name: "post", Label: "Posts"}}
	tl, ok := a.source.(carousel.TypeLister)
	if !ok {
		return fallback
	}
	types, err := tl.ContentTypes(ctx)
	if err != nil {
		a.Echo.Logger.Errorf("list content types: %v", err)
		return fallback
	}
	if len(types) == 0 {
		return fallback
	}
	return types
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded client assets fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	for _, name := range []string{"carousel.js", "carousel.css", "editor.js", "site.css"} {
		e.GET("/public/"+name, echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	}
	e.GET(fallbackImagePath, handleFallbackImage)

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/", a.handleHome)
	e.GET("/blocks/:id/", a.handleBlock)
	e.GET("/blocks/:id/fragment/", a.handleBlockFragment)
	e.GET("/blocks/:id/feed.xml", a.handleBlockFeed)
	e.GET("/posts/:slug/", a.handlePost)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	admin := e.Group("/admin", a.requireAdmin)
	admin.POST("/blocks/", a.handleBlockCreate)
	admin.GET("/blocks/:id/", a.handleEditor)
	admin.POST("/blocks/:id/rename/", a.handleBlockRename)
	admin.POST("/blocks/:id/delete/", a.handleBlockDelete)
	admin.POST("/blocks/:id/attributes/", a.handleAttributes)
	admin.GET("/blocks/:id/preview/", a.handlePreview)
	admin.POST("/blocks/:id/refresh/", a.handlePreviewRefresh)
	admin.POST("/posts/", a.handlePostSave)
	admin.POST("/posts/:id/delete/", a.handlePostDelete)
	admin.POST("/categories/", a.handleCategorySave)
	admin.POST("/authors/", a.handleAuthorSave)
	admin.POST("/images/upload/", a.handleImageUpload)
	admin.POST("/images/:id/delete/", a.handleImageDelete)
	admin.POST("/sizes/", a.handleSizeSave)

	api := e.Group("/api", a.requireAdmin)
	api.GET("/content-types", a.handleContentTypes)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.previews != nil {
		a.previews.closeAll()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("storycarousel: required environment variable %s is not set", key)
	}
	return v
}
