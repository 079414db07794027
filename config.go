package writedesk

import "time"

// SiteConfig holds all configuration for a writedesk site.
type SiteConfig struct {
	Name        string // Site name (default "Writedesk")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/writedesk.db")

	AdminPassword string // Admin login password; admin API is open when empty
	SessionSecret string // Session encryption secret; required with AdminPassword
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Published-post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Writedesk"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/writedesk.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance. The
// callback runs after the built-in routes are set up, before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets and uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
