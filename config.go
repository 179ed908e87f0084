package portablepress

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/portablepress/metrics"
)

// SiteConfig holds all configuration for a portablepress site.
type SiteConfig struct {
	Title        string `yaml:"title"`        // Site title (default "Blog")
	SiteURL      string `yaml:"siteUrl"`      // Canonical URL (default "http://localhost:3000")
	Description  string `yaml:"description"`  // Site description for RSS and meta tags
	Author       string `yaml:"author"`       // Default author for metadata
	Locale       string `yaml:"locale"`       // OpenGraph locale (default "en_US")
	SocialBanner string `yaml:"socialBanner"` // Fallback share image

	Addr         string       `yaml:"addr"`         // Listen address (default ":3000")
	Source       string       `yaml:"source"`       // "sanity" or "sqlite" (default "sanity")
	DatabasePath string       `yaml:"databasePath"` // SQLite mirror path (default "data/content.db")
	Sanity       SanityConfig `yaml:"sanity"`
	Search       SearchConfig `yaml:"search"`

	TagCountPath    string        `yaml:"tagCountPath"`    // default "app/tag-data.json"
	PublicDir       string        `yaml:"publicDir"`       // default "public"
	PostsPerPage    int           `yaml:"postsPerPage"`    // default 5
	CacheTTL        time.Duration `yaml:"cacheTTL"`        // 0 disables the source cache
	RebuildInterval time.Duration `yaml:"rebuildInterval"` // 0 disables scheduled rebuilds

	PreviewSecret    string `yaml:"previewSecret"`    // Enables draft preview when set
	SessionSecret    string `yaml:"sessionSecret"`    // Required by serve: session encryption secret
	RevalidateSecret string `yaml:"revalidateSecret"` // Enables the revalidate webhook when set
	CookieSecure     bool   `yaml:"cookieSecure"`     // Set true for HTTPS
}

// SanityConfig locates the CMS dataset.
type SanityConfig struct {
	ProjectID  string `yaml:"projectId"`
	Dataset    string `yaml:"dataset"`    // default "production"
	APIVersion string `yaml:"apiVersion"` // default "2024-01-01"
	Token      string `yaml:"token"`
	UseCDN     bool   `yaml:"useCdn"`
}

// SearchConfig selects the client-side search provider.
type SearchConfig struct {
	Provider   string `yaml:"provider"`
	KbarConfig struct {
		SearchDocumentsPath string `yaml:"searchDocumentsPath"`
	} `yaml:"kbarConfig"`
}

// Source kinds accepted in SiteConfig.Source.
const (
	SourceSanity = "sanity"
	SourceSQLite = "sqlite"
)

func (c *SiteConfig) setDefaults() {
	if c.Title == "" {
		c.Title = "Blog"
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:3000"
	}
	if c.Locale == "" {
		c.Locale = "en_US"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Source == "" {
		c.Source = SourceSanity
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/content.db"
	}
	if c.Sanity.Dataset == "" {
		c.Sanity.Dataset = "production"
	}
	if c.Sanity.APIVersion == "" {
		c.Sanity.APIVersion = "2024-01-01"
	}
	if c.TagCountPath == "" {
		c.TagCountPath = "app/tag-data.json"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 5
	}
}

// LoadConfig reads the YAML file at path, applies environment overrides and
// fills defaults. A missing file is not an error: the site is then
// configured from the environment alone.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("portablepress: read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("portablepress: parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	c.Title = EnvOr("SITE_TITLE", c.Title)
	c.SiteURL = EnvOr("SITE_URL", c.SiteURL)
	c.Addr = EnvOr("ADDR", c.Addr)
	c.Source = EnvOr("CONTENT_SOURCE", c.Source)
	c.DatabasePath = EnvOr("DATABASE_PATH", c.DatabasePath)
	c.Sanity.ProjectID = EnvOr("SANITY_PROJECT_ID", c.Sanity.ProjectID)
	c.Sanity.Dataset = EnvOr("SANITY_DATASET", c.Sanity.Dataset)
	c.Sanity.APIVersion = EnvOr("SANITY_API_VERSION", c.Sanity.APIVersion)
	c.Sanity.Token = EnvOr("SANITY_API_TOKEN", c.Sanity.Token)
	c.PreviewSecret = EnvOr("PREVIEW_SECRET", c.PreviewSecret)
	c.SessionSecret = EnvOr("SESSION_SECRET", c.SessionSecret)
	c.RevalidateSecret = EnvOr("REVALIDATE_SECRET", c.RevalidateSecret)

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("portablepress: CACHE_TTL: %w", err)
		}
		c.CacheTTL = d
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("portablepress: COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = b
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithSource sets the content source the App reads from.
func WithSource(src Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithAssetResolver sets how image references become URLs.
func WithAssetResolver(r AssetResolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *App) {
		a.recorder = r
	}
}

// WithMetricsHandler exposes h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *App) {
		a.metricsHandler = h
	}
}

// WithLogger sets the structured logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default PublicDir).
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
