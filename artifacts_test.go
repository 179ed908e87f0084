package portablepress

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTagCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app", "tag-data.json")

	require.NoError(t, WriteTagCount(path, TagCount{"go": 2, "web-dev": 1}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"go":2,"web-dev":1}`, string(data))

	require.NoError(t, WriteTagCount(path, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestSearchIndexPath(t *testing.T) {
	site := testSite
	site.PublicDir = "public"
	assert.Empty(t, SearchIndexPath(site))

	site.Search.Provider = "algolia"
	site.Search.KbarConfig.SearchDocumentsPath = "search.json"
	assert.Empty(t, SearchIndexPath(site))

	site.Search.Provider = "kbar"
	assert.Equal(t, filepath.Join("public", "search.json"), SearchIndexPath(site))
}

func TestWriteSearchIndexDisabled(t *testing.T) {
	path, err := WriteSearchIndex(testSite, []PostMeta{{Slug: "a"}})
	require.NoError(t, err)
	assert.Empty(t, path)
}

func artifactSite(t *testing.T) SiteConfig {
	t.Helper()
	dir := t.TempDir()
	site := testSite
	site.TagCountPath = filepath.Join(dir, "app", "tag-data.json")
	site.PublicDir = filepath.Join(dir, "public")
	site.Search.Provider = "kbar"
	site.Search.KbarConfig.SearchDocumentsPath = "/search.json"
	return site
}

func TestBuilderBuild(t *testing.T) {
	site := artifactSite(t)
	b := &Builder{Content: NewContent(blogSource(), &Transformer{Site: site}), Site: site}

	report, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 3, report.Posts)
	assert.Equal(t, 2, report.Authors)
	assert.Equal(t, 2, report.Tags)
	assert.Equal(t, site.TagCountPath, report.TagCountPath)

	data, err := os.ReadFile(site.TagCountPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"go":2,"web-dev":2}`, string(data))

	require.Equal(t, filepath.Join(site.PublicDir, "search.json"), report.SearchIndexPath)
	data, err = os.ReadFile(report.SearchIndexPath)
	require.NoError(t, err)

	var index []map[string]any
	require.NoError(t, json.Unmarshal(data, &index))
	require.Len(t, index, 3)
	assert.Equal(t, "third", index[0]["slug"])
	assert.Equal(t, "first", index[2]["slug"])
	for _, doc := range index {
		assert.NotContains(t, doc, "body")
	}
}

func TestBuilderBuildFailureWritesNothing(t *testing.T) {
	site := artifactSite(t)
	src := blogSource()
	src.err = errors.New("timeout")
	b := &Builder{Content: NewContent(src, &Transformer{Site: site}), Site: site}

	_, err := b.Build(context.Background())
	var fe *UpstreamFetchError
	require.ErrorAs(t, err, &fe)

	_, statErr := os.Stat(site.TagCountPath)
	assert.True(t, os.IsNotExist(statErr))
}
