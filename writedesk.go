// Package writedesk is a two-tier blog/portfolio content system built with
// Go, Echo, and SQLite: a JSON API for the writer console (content CRUD,
// scheduling, insights, settings) plus a small server-rendered public blog
// with RSS and sitemap.
package writedesk

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the central writedesk application. It wires together the store,
// cache, services, handlers, and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *PostCache
	Content  *ContentService
	Insights *InsightsService
	Settings *SettingsService

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new writedesk App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Bootstrap initializes the database, cache, services, middleware, and
// routes. It is called by Start and is exposed separately so tests can drive
// the Echo instance without binding a listener.
func (a *App) Bootstrap() error {
	if a.Config.AdminPassword != "" && a.Config.SessionSecret == "" {
		return fmt.Errorf("writedesk: SessionSecret is required when AdminPassword is set")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("writedesk: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)
	a.Content = NewContentService(store)
	a.Insights = NewInsightsService(a.Content)
	a.Settings = NewSettingsService(store)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start bootstraps the app and runs the HTTP server until it shuts down.
func (a *App) Start() error {
	if a.Store == nil {
		if err := a.Bootstrap(); err != nil {
			return err
		}
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)

	// Server-rendered public blog
	e.GET("/", handleHomeRedirect)
	e.GET("/blog", a.handleBlogIndex)
	e.GET("/blog/:slug", a.handleBlogPost)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)

	// JSON API
	api := e.Group("/api")
	api.GET("/public/posts", a.handleListPublishedPosts)
	api.GET("/public/posts/by-slug/:slug", a.handlePublicPostBySlug)

	api.POST("/admin/login", a.handleAdminLogin)
	api.POST("/admin/logout", a.handleAdminLogout)

	admin := api.Group("/admin", a.requireAdmin)
	admin.GET("/posts", a.handleListAdminPosts)
	admin.GET("/posts/new/editor-data", a.handleNewEditorData)
	admin.GET("/posts/:id/editor-data", a.handleEditorData)
	admin.POST("/posts/save-draft", a.handleSaveDraft)
	admin.GET("/insights", a.handleInsights)
	admin.GET("/settings", a.handleGetSettings)
	admin.PUT("/settings", a.handleUpdateSettings)
	admin.GET("/images", a.handleImageList)
	admin.POST("/images", a.handleImageUpload)
	admin.DELETE("/images/:filename", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
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
