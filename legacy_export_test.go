package portablepress

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/eringen/portablepress/richtext"
)

func splitMDX(t *testing.T, path string) (map[string]any, string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	parts := strings.SplitN(string(data), "---\n", 3)
	require.Len(t, parts, 3, "expected front matter delimiters in %s", path)
	require.Empty(t, parts[0])

	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	return fm, parts[2]
}

func TestExportLegacy(t *testing.T) {
	tr := &Transformer{Site: testSite}
	raw := rawPost("hello", "2024-01-15", "Go", "Testing")
	raw.Summary = "Greetings"
	raw.Authors = []RawAuthorRef{{Name: "Ada Lovelace"}}
	raw.Body = mustBlocks(t, `[
		{"_type":"block","style":"h2","children":[{"_type":"span","text":"Intro"}]},
		{"_type":"code","language":"go","code":"fmt.Println(1)"}
	]`)
	post, err := tr.TransformPost(raw)
	require.NoError(t, err)
	author, err := tr.TransformAuthor(RawAuthor{ID: "a1", Name: "Ada Lovelace", Slug: RawSlug{Current: "ada"}, Occupation: "Analyst"})
	require.NoError(t, err)

	dir := t.TempDir()
	n, err := ExportLegacy(dir, []Post{post}, []Author{author}, richtext.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fm, body := splitMDX(t, filepath.Join(dir, "blog", "hello.mdx"))
	assert.Equal(t, "Title hello", fm["title"])
	assert.Equal(t, "Greetings", fm["summary"])
	assert.Equal(t, []any{"Go", "Testing"}, fm["tags"])
	assert.Equal(t, []any{"Ada Lovelace"}, fm["authors"])
	assert.Equal(t, false, fm["draft"])
	assert.Contains(t, body, "Intro")
	assert.Contains(t, body, "```go\nfmt.Println(1)\n```")

	fm, _ = splitMDX(t, filepath.Join(dir, "authors", "ada.mdx"))
	assert.Equal(t, "Ada Lovelace", fm["name"])
	assert.Equal(t, "Analyst", fm["occupation"])
	assert.Equal(t, DefaultAuthorLayout, fm["layout"])
}

func TestExportLegacyEmptyBody(t *testing.T) {
	post, err := (&Transformer{Site: testSite}).TransformPost(rawPost("bare", "2024-01-01"))
	require.NoError(t, err)

	dir := t.TempDir()
	n, err := ExportLegacy(dir, []Post{post}, nil, richtext.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	fm, body := splitMDX(t, filepath.Join(dir, "blog", "bare.mdx"))
	assert.Equal(t, "Title bare", fm["title"])
	assert.Empty(t, body)
}
