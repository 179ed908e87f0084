package portablepress

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLegacyFillsDefaults(t *testing.T) {
	lp := ToLegacy(Post{PostMeta: PostMeta{ID: "p1", Slug: "hello", Date: "2024-03-01"}})

	assert.Equal(t, TypePost, lp.Type)
	assert.Equal(t, DefaultPostLayout, lp.Layout)
	assert.Equal(t, LegacyReadingTime, lp.ReadingTime)
	assert.Equal(t, "2024-03-01", lp.Lastmod)
	assert.Equal(t, "blog/hello", lp.Path)
	assert.Equal(t, "blog/hello.mdx", lp.FilePath)
	assert.Equal(t, RawFileInfo{
		FlattenedPath:  "blog/hello",
		SourceFilePath: "blog/hello.mdx",
		SourceFileName: "hello.mdx",
		SourceDirName:  "blog",
		ContentType:    "mdx",
	}, lp.Raw)
}

func TestToLegacyNeverSerializesNull(t *testing.T) {
	lp := ToLegacy(Post{PostMeta: PostMeta{Slug: "bare"}})
	data := mustJSON(t, lp)
	assert.NotContains(t, string(data), "null")

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"tags", "images", "authors", "toc", "structuredData", "body", "_raw", "draft", "readingTime"} {
		assert.Contains(t, fields, key)
		assert.NotNil(t, fields[key], key)
	}
}

func TestToLegacyKeepsValues(t *testing.T) {
	post := Post{
		PostMeta: PostMeta{
			ID:          "p1",
			Type:        TypePost,
			Slug:        "hello",
			Date:        "2024-03-01",
			Lastmod:     "2024-04-01",
			Layout:      "PostSimple",
			ReadingTime: "4 min read",
			Tags:        []string{"go"},
			Draft:       true,
		},
		Body: Body{Raw: `[{"_type":"break"}]`, HTML: "<hr>"},
	}
	lp := ToLegacy(post)
	assert.Equal(t, "2024-04-01", lp.Lastmod)
	assert.Equal(t, "PostSimple", lp.Layout)
	assert.Equal(t, "4 min read", lp.ReadingTime)
	assert.True(t, lp.Draft)
	assert.Equal(t, LegacyBody{Raw: `[{"_type":"break"}]`, HTML: "<hr>", Code: `[{"_type":"break"}]`}, lp.Body)
}

func TestToLegacyIsIdempotent(t *testing.T) {
	tr := &Transformer{Site: testSite}
	raw := rawPost("twice", "2024-02-02", "Go")
	raw.Body = mustBlocks(t, `[{"_type":"block","style":"h1","children":[{"_type":"span","text":"Top"}]}]`)
	post, err := tr.TransformPost(raw)
	require.NoError(t, err)

	once := ToLegacy(post)
	twice := once.WithDefaults()
	assert.Equal(t, once, twice)
	assert.JSONEq(t, string(mustJSON(t, once)), string(mustJSON(t, twice)))
}

func TestToLegacyAuthor(t *testing.T) {
	la := ToLegacyAuthor(Author{ID: "a1", Name: "Ada", Slug: "ada"})

	assert.Equal(t, TypeAuthor, la.Type)
	assert.Equal(t, DefaultAuthorLayout, la.Layout)
	assert.NotNil(t, la.Bio)
	assert.Equal(t, "authors/ada", la.Raw.FlattenedPath)
	assert.Equal(t, "data/authors/ada.mdx", la.Raw.SourceFilePath)
	assert.Equal(t, "ada.mdx", la.Raw.SourceFileName)
	assert.Equal(t, "authors", la.Raw.SourceDirName)

	data := string(mustJSON(t, la))
	assert.False(t, strings.Contains(data, "null"), data)
	assert.Equal(t, la, la.WithDefaults())
}

func TestFileInfoWithoutDirectory(t *testing.T) {
	fi := fileInfo("readme", "readme.mdx")
	assert.Equal(t, "", fi.SourceDirName)
	assert.Equal(t, "readme.mdx", fi.SourceFileName)
}
