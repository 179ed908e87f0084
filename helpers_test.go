package portablepress

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog"}, "https://example.com/blog/"},
		{"https://example.com/", []string{"blog", "page", "2"}, "https://example.com/blog/page/2/"},
		{"https://example.com/sub", []string{"tags", "go"}, "https://example.com/sub/tags/go/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildURL(tt.base, tt.segments...), "BuildURL(%q, %v)", tt.base, tt.segments)
	}
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "", AbsoluteURL(testSite, ""))
	assert.Equal(t, "https://cdn.example.com/a.png", AbsoluteURL(testSite, "https://cdn.example.com/a.png"))
	assert.Equal(t, "https://blog.example.com/static/banner.png", AbsoluteURL(testSite, "/static/banner.png"))
	assert.Equal(t, "https://blog.example.com/static/banner.png", AbsoluteURL(testSite, "static/banner.png"))
}

func TestFilterEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, FilterEmpty([]string{"", " a ", "  ", "b"}))
	assert.Empty(t, FilterEmpty(nil))
}

func TestFilterRelatedPosts(t *testing.T) {
	current := PostMeta{Slug: "cur", Tags: []string{"Web Dev"}}
	posts := []PostMeta{
		{Slug: "cur", Tags: []string{"Web Dev"}},
		{Slug: "a", Tags: []string{"web-dev", "go"}},
		{Slug: "b", Tags: []string{"rust"}},
		{Slug: "c", Tags: []string{"WEB DEV"}},
	}
	assert.Equal(t, []string{"a", "c"}, slugsOf(FilterRelatedPosts(current, posts)))
	assert.Empty(t, FilterRelatedPosts(PostMeta{Slug: "x"}, posts))
}

func TestBuildStructuredData(t *testing.T) {
	meta := PostMeta{
		Title:   "Hello",
		Slug:    "hello",
		Date:    "2024-01-15",
		Summary: "Greetings",
		Tags:    []string{"Go", "Web"},
	}
	sd := BuildStructuredData(meta, testSite)
	assert.Equal(t, "BlogPosting", sd["@type"])
	assert.Equal(t, "2024-01-15", sd["dateModified"], "modified falls back to the publication date")
	assert.Equal(t, "https://blog.example.com/blog/hello/", sd["url"])
	assert.Equal(t, "https://blog.example.com/static/banner.png", sd["image"])
	assert.Equal(t, "Go, Web", sd["keywords"])

	assert.Equal(t, MarshalJSONLD(sd), MarshalJSONLD(BuildStructuredData(meta, testSite)))

	meta.CanonicalURL = "https://elsewhere.example.com/hello"
	meta.Images = []Image{{URL: "https://cdn.example.com/a.png"}}
	sd = BuildStructuredData(meta, testSite)
	assert.Equal(t, "https://elsewhere.example.com/hello", sd["url"])
	assert.Equal(t, "https://cdn.example.com/a.png", sd["image"])
}

func TestWithAuthorsDoesNotMutate(t *testing.T) {
	sd := StructuredData{"@type": "BlogPosting"}
	out := WithAuthors(sd, []Author{{Name: "Ada"}})
	assert.NotContains(t, sd, "author")
	assert.Equal(t, []map[string]string{{"@type": "Person", "name": "Ada"}}, out["author"])

	assert.Equal(t, StructuredData{}, WithAuthors(nil, nil))
}

func TestWebsiteJSONLD(t *testing.T) {
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(WebsiteJSONLD(testSite)), &got))
	assert.Equal(t, "WebSite", got["@type"])
	assert.Equal(t, "Test Blog", got["name"])
	assert.Equal(t, "https://blog.example.com", got["url"])
	assert.Equal(t, map[string]any{"@type": "Person", "name": "Site Author"}, got["author"])
}

func TestPostMetadata(t *testing.T) {
	meta := PostMeta{Title: "Hello", Slug: "hello", Summary: "Greetings", Date: "2024-01-15", Lastmod: "2024-02-01"}
	md := PostMetadata(meta, testSite)
	assert.Equal(t, "https://blog.example.com/blog/hello/", md.URL)
	assert.Equal(t, "article", md.OpenGraph.Type)
	assert.Equal(t, "2024-01-15T00:00:00Z", md.OpenGraph.PublishedTime)
	assert.Equal(t, "2024-02-01T00:00:00Z", md.OpenGraph.ModifiedTime)
	assert.Equal(t, []string{"https://blog.example.com/static/banner.png"}, md.OpenGraph.Images)
	assert.Equal(t, []string{"Site Author"}, md.OpenGraph.Authors)
	assert.Equal(t, "summary_large_image", md.Twitter.Card)

	meta.Images = []Image{{URL: "/img/a.png"}}
	meta.Authors = []string{"Ada"}
	md = PostMetadata(meta, testSite)
	assert.Equal(t, []string{"https://blog.example.com/img/a.png"}, md.Twitter.Images)
	assert.Equal(t, []string{"Ada"}, md.OpenGraph.Authors)
}

func TestSiteMetadataDefaults(t *testing.T) {
	md := SiteMetadata(testSite, "", "", "https://blog.example.com/")
	assert.Equal(t, "Test Blog", md.Title)
	assert.Equal(t, "Notes", md.Description)
	assert.Equal(t, "website", md.OpenGraph.Type)
	assert.Equal(t, "en_US", md.OpenGraph.Locale)
}
