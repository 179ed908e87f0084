package portablepress

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv blanks every variable LoadConfig consults so the host
// environment cannot leak into a test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SITE_TITLE", "SITE_URL", "ADDR", "CONTENT_SOURCE", "DATABASE_PATH",
		"SANITY_PROJECT_ID", "SANITY_DATASET", "SANITY_API_VERSION", "SANITY_API_TOKEN",
		"PREVIEW_SECRET", "SESSION_SECRET", "REVALIDATE_SECRET", "CACHE_TTL", "COOKIE_SECURE",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portablepress.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Blog", cfg.Title)
	assert.Equal(t, "http://localhost:3000", cfg.SiteURL)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, SourceSanity, cfg.Source)
	assert.Equal(t, "production", cfg.Sanity.Dataset)
	assert.Equal(t, "2024-01-01", cfg.Sanity.APIVersion)
	assert.Equal(t, "app/tag-data.json", cfg.TagCountPath)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, 5, cfg.PostsPerPage)
	assert.Zero(t, cfg.CacheTTL)
}

func TestLoadConfigFromYAML(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
title: My Notes
siteUrl: https://notes.example.com
postsPerPage: 10
cacheTTL: 90s
rebuildInterval: 15m
sanity:
  projectId: abc123
  dataset: staging
  useCdn: true
search:
  provider: kbar
  kbarConfig:
    searchDocumentsPath: search.json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "My Notes", cfg.Title)
	assert.Equal(t, "https://notes.example.com", cfg.SiteURL)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.RebuildInterval)
	assert.Equal(t, "abc123", cfg.Sanity.ProjectID)
	assert.Equal(t, "staging", cfg.Sanity.Dataset)
	assert.True(t, cfg.Sanity.UseCDN)
	assert.Equal(t, "kbar", cfg.Search.Provider)
	assert.Equal(t, "search.json", cfg.Search.KbarConfig.SearchDocumentsPath)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, "title: From File\nsanity:\n  projectId: file-project\n")
	t.Setenv("SITE_TITLE", "From Env")
	t.Setenv("SANITY_PROJECT_ID", "env-project")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Title)
	assert.Equal(t, "env-project", cfg.Sanity.ProjectID)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadConfigErrors(t *testing.T) {
	clearConfigEnv(t)

	_, err := LoadConfig(writeConfig(t, "title: [unterminated"))
	assert.Error(t, err)

	t.Setenv("CACHE_TTL", "soon")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "CACHE_TTL")
}

func TestEnvOr(t *testing.T) {
	t.Setenv("PORTABLEPRESS_TEST_KEY", "")
	assert.Equal(t, "fallback", EnvOr("PORTABLEPRESS_TEST_KEY", "fallback"))
	t.Setenv("PORTABLEPRESS_TEST_KEY", "set")
	assert.Equal(t, "set", EnvOr("PORTABLEPRESS_TEST_KEY", "fallback"))
}
