package richtext

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTMLHeadingIDsMatchOutline(t *testing.T) {
	bs := mustParse(t, `[
	  {"_type":"block","style":"h2","children":[{"_type":"span","text":"Install"}]},
	  {"_type":"block","children":[{"_type":"span","text":"text"}]},
	  {"_type":"block","style":"h3","children":[{"_type":"span","text":"Install"}]},
	  {"_type":"block","style":"h2","children":[{"_type":"span","text":"Use it, *now*"}]}
	]`)

	out, err := RenderHTML(bs, Options{})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	var ids []string
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		ids = append(ids, id)
	})

	var want []string
	for _, e := range ExtractOutline(bs) {
		want = append(want, e.Slug)
	}
	assert.Equal(t, want, ids)
	assert.Equal(t, []string{"install", "install-1", "use-it-now"}, ids)
}

func renderedHeadingIDs(t *testing.T, html string) []string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	ids := make([]string, 0)
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		ids = append(ids, id)
	})
	return ids
}

func outlineSlugs(bs Blocks) []string {
	slugs := make([]string, 0)
	for _, e := range ExtractOutline(bs) {
		slugs = append(slugs, e.Slug)
	}
	return slugs
}

func TestRenderHTMLHeadingStyledListItem(t *testing.T) {
	bs := mustParse(t, `[
	  {"_type":"block","style":"h2","listItem":"bullet","level":1,"children":[{"_type":"span","text":"Item"}]},
	  {"_type":"block","style":"h2","children":[{"_type":"span","text":"Intro"}]}
	]`)

	out, err := RenderHTML(bs, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"item", "intro"}, outlineSlugs(bs))
	assert.Equal(t, outlineSlugs(bs), renderedHeadingIDs(t, out))
	assert.Contains(t, out, `<h2 id="intro">Intro</h2>`)
}

func TestRenderHTMLUnsluggableHeadings(t *testing.T) {
	bs := mustParse(t, `[
	  {"_type":"block","style":"h2","children":[{"_type":"span","text":""}]},
	  {"_type":"block","style":"h2","children":[{"_type":"span","text":"!!!"}]},
	  {"_type":"block","style":"h2","children":[{"_type":"span","text":"Heading"}]}
	]`)

	out, err := RenderHTML(bs, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"heading", "heading-1", "heading-2"}, outlineSlugs(bs))
	assert.Equal(t, outlineSlugs(bs), renderedHeadingIDs(t, out))
}

func TestRenderHTMLContent(t *testing.T) {
	bs := mustParse(t, sampleBody)
	out, err := RenderHTML(bs, Options{ImageURL: func(a AssetRef) (string, error) {
		return "https://cdn.example.com/" + a.Ref + ".png", nil
	}})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	href, ok := doc.Find("p a").Attr("href")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/docs", href)

	src, ok := doc.Find("img").Attr("src")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/image-abc-10x20-png.png", src)

	assert.Equal(t, "go run .", strings.TrimSpace(doc.Find("pre code.language-sh").Text()))
	assert.Equal(t, 0, doc.Find("script").Length())
}

func TestRenderHTMLEscapesMarkup(t *testing.T) {
	bs := mustParse(t, `[{"_type":"block","children":[{"_type":"span","text":"<script>alert(1)</script> & more"}]}]`)
	out, err := RenderHTML(bs, Options{})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, "<script>alert(1)</script> & more", doc.Find("p").Text())
}

func TestRenderHTMLEmpty(t *testing.T) {
	out, err := RenderHTML(nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Component("<p>hi</p>").Render(context.Background(), &buf))
	assert.Equal(t, "<p>hi</p>", buf.String())
}
