package writedesk

import (
	"database/sql"
	"fmt"
	"time"
)

// defaultSettings are the hardcoded values used to lazily create the
// settings row on first read.
var defaultSettings = AdminSettings{
	SeoTitleSuffix:        "• Minimalist Studio",
	SeoDefaultDescription: "Long-form writing on product, engineering, and design.",
	SeoDefaultOgImageURL:  "https://example.com/og/default.png",
	AuthorName:            "Minimalist Studio",
	AuthorBio:             "Solo technical writer exploring the edges of product, engineering, and calm tooling.",
	RSSEnabled:            true,
	EmailDigestEnabled:    false,
}

const settingsColumns = `id, seo_title_suffix, seo_default_description, seo_default_og_image_url, author_name, author_bio, rss_enabled, email_digest_enabled, updated_at`

// Settings returns the singleton settings row, or ErrNotFound when it has not
// been created yet.
func (s *Store) Settings() (AdminSettings, error) {
	row := s.db.QueryRow(`SELECT ` + settingsColumns + ` FROM admin_settings LIMIT 1`)
	settings, err := scanSettings(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return AdminSettings{}, fmt.Errorf("settings not initialized: %w", ErrNotFound)
		}
		return AdminSettings{}, err
	}
	return settings, nil
}

// GetOrCreateSettings returns the existing settings row, or creates one from
// the supplied defaults when none exists.
func (s *Store) GetOrCreateSettings(defaults AdminSettings) (AdminSettings, error) {
	existing, err := s.Settings()
	if err == nil {
		return existing, nil
	}
	if _, err := s.db.Exec(`INSERT INTO admin_settings (seo_title_suffix, seo_default_description, seo_default_og_image_url, author_name, author_bio, rss_enabled, email_digest_enabled, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		defaults.SeoTitleSuffix, defaults.SeoDefaultDescription, defaults.SeoDefaultOgImageURL,
		defaults.AuthorName, defaults.AuthorBio,
		boolToInt(defaults.RSSEnabled), boolToInt(defaults.EmailDigestEnabled),
		formatTime(time.Now())); err != nil {
		return AdminSettings{}, fmt.Errorf("writedesk: create settings: %w", err)
	}
	return s.Settings()
}

// UpdateSettings overwrites the provided fields of the settings row. It fails
// with ErrNotFound when the row does not exist yet; callers must have gone
// through GetOrCreateSettings first.
func (s *Store) UpdateSettings(in AdminSettingsUpdate) (AdminSettings, error) {
	existing, err := s.Settings()
	if err != nil {
		return AdminSettings{}, err
	}

	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}
	addSet := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if in.SeoTitleSuffix != nil {
		addSet("seo_title_suffix", *in.SeoTitleSuffix)
	}
	if in.SeoDefaultDescription != nil {
		addSet("seo_default_description", *in.SeoDefaultDescription)
	}
	if in.SeoDefaultOgImageURL != nil {
		addSet("seo_default_og_image_url", *in.SeoDefaultOgImageURL)
	}
	if in.AuthorName != nil {
		addSet("author_name", *in.AuthorName)
	}
	if in.AuthorBio != nil {
		addSet("author_bio", *in.AuthorBio)
	}
	if in.RSSEnabled != nil {
		addSet("rss_enabled", boolToInt(*in.RSSEnabled))
	}
	if in.EmailDigestEnabled != nil {
		addSet("email_digest_enabled", boolToInt(*in.EmailDigestEnabled))
	}

	query := `UPDATE admin_settings SET `
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += ` WHERE id = ?`
	args = append(args, existing.ID)
	if _, err := s.db.Exec(query, args...); err != nil {
		return AdminSettings{}, fmt.Errorf("writedesk: update settings: %w", err)
	}
	return s.Settings()
}

func scanSettings(row rowScanner) (AdminSettings, error) {
	var a AdminSettings
	var rss, digest int
	var updatedAt string
	if err := row.Scan(&a.ID, &a.SeoTitleSuffix, &a.SeoDefaultDescription, &a.SeoDefaultOgImageURL,
		&a.AuthorName, &a.AuthorBio, &rss, &digest, &updatedAt); err != nil {
		return AdminSettings{}, err
	}
	a.RSSEnabled = rss == 1
	a.EmailDigestEnabled = digest == 1
	a.UpdatedAt = parseTime(updatedAt)
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SeoDefaultsView is the nested SEO block of the settings view.
type SeoDefaultsView struct {
	DefaultTitleSuffix string `json:"defaultTitleSuffix"`
	DefaultDescription string `json:"defaultDescription"`
	DefaultOgImageURL  string `json:"defaultOgImageUrl"`
}

// IntegrationsView is the nested integrations block of the settings view.
type IntegrationsView struct {
	RSSEnabled         bool `json:"rssEnabled"`
	EmailDigestEnabled bool `json:"emailDigestEnabled"`
}

// AdminSettingsView is the settings shape served to and accepted from the
// admin console.
type AdminSettingsView struct {
	SeoDefaults  SeoDefaultsView  `json:"seoDefaults"`
	AuthorName   string           `json:"authorName"`
	AuthorBio    string           `json:"authorBio"`
	Integrations IntegrationsView `json:"integrations"`
}

// SettingsService exposes the settings read/update workflows.
type SettingsService struct {
	store *Store
}

// NewSettingsService creates a SettingsService backed by the given store.
func NewSettingsService(store *Store) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the settings view, creating the row from defaults on first read.
func (s *SettingsService) Get() (AdminSettingsView, error) {
	entity, err := s.store.GetOrCreateSettings(defaultSettings)
	if err != nil {
		return AdminSettingsView{}, err
	}
	return settingsView(entity), nil
}

// Update overwrites the settings from the supplied view and returns it. The
// row must already exist, which in practice it always does because the
// console loads settings before saving them.
func (s *SettingsService) Update(in AdminSettingsView) (AdminSettingsView, error) {
	entity, err := s.store.UpdateSettings(AdminSettingsUpdate{
		SeoTitleSuffix:        &in.SeoDefaults.DefaultTitleSuffix,
		SeoDefaultDescription: &in.SeoDefaults.DefaultDescription,
		SeoDefaultOgImageURL:  &in.SeoDefaults.DefaultOgImageURL,
		AuthorName:            &in.AuthorName,
		AuthorBio:             &in.AuthorBio,
		RSSEnabled:            &in.Integrations.RSSEnabled,
		EmailDigestEnabled:    &in.Integrations.EmailDigestEnabled,
	})
	if err != nil {
		return AdminSettingsView{}, err
	}
	return settingsView(entity), nil
}

// RSSEnabled reports whether the RSS integration is on, without creating the
// settings row as a side effect. Missing settings default to enabled.
func (s *SettingsService) RSSEnabled() bool {
	entity, err := s.store.Settings()
	if err != nil {
		return defaultSettings.RSSEnabled
	}
	return entity.RSSEnabled
}

func settingsView(a AdminSettings) AdminSettingsView {
	return AdminSettingsView{
		SeoDefaults: SeoDefaultsView{
			DefaultTitleSuffix: a.SeoTitleSuffix,
			DefaultDescription: a.SeoDefaultDescription,
			DefaultOgImageURL:  a.SeoDefaultOgImageURL,
		},
		AuthorName: a.AuthorName,
		AuthorBio:  a.AuthorBio,
		Integrations: IntegrationsView{
			RSSEnabled:         a.RSSEnabled,
			EmailDigestEnabled: a.EmailDigestEnabled,
		},
	}
}
