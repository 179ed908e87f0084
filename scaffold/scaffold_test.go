package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteRendersTemplates(t *testing.T) {
	dir := t.TempDir()
	written, err := Write(dir, Data{
		SiteName:  "My Blog",
		SiteURL:   "https://blog.example.com",
		ProjectID: "abc123",
		Dataset:   "production",
	}, false)
	require.NoError(t, err)
	assert.Contains(t, written, filepath.Join(dir, "portablepress.yaml"))
	assert.Contains(t, written, filepath.Join(dir, ".env.example"))

	data, err := os.ReadFile(filepath.Join(dir, "portablepress.yaml"))
	require.NoError(t, err)
	var cfg struct {
		Title  string `yaml:"title"`
		Sanity struct {
			ProjectID string `yaml:"projectId"`
		} `yaml:"sanity"`
	}
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "My Blog", cfg.Title)
	assert.Equal(t, "abc123", cfg.Sanity.ProjectID)

	env, err := os.ReadFile(filepath.Join(dir, ".env.example"))
	require.NoError(t, err)
	assert.Contains(t, string(env), "SANITY_PROJECT_ID=abc123")
}

func TestWriteRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, Data{SiteName: "A"}, false)
	require.NoError(t, err)

	_, err = Write(dir, Data{SiteName: "B"}, false)
	assert.ErrorIs(t, err, ErrExists)

	_, err = Write(dir, Data{SiteName: "B"}, true)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "portablepress.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `title: "B"`)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "My Blog", Title("my-blog"))
	assert.Equal(t, "Myblog", Title("myblog"))
}
