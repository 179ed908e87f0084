package portablepress

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap lists the home, blog and tag indexes, every post and every tag
// page.
func buildSitemap(site SiteConfig, posts []PostMeta, tags TagCount) sitemapURLSet {
	base := site.SiteURL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "blog")},
		{Loc: BuildURL(base, "tags")},
	}
	for _, p := range posts {
		lastMod := p.Modified()
		if lastMod.IsZero() {
			lastMod = p.Published()
		}
		u := sitemapURL{Loc: PostURL(site, p.Slug)}
		if !lastMod.IsZero() {
			u.LastMod = lastMod.UTC().Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	for _, st := range tags.Sorted() {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "tags", st.Tag)})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, posts []PostMeta, tags TagCount) error {
	return writeXML(c, "application/xml; charset=utf-8", buildSitemap(a.Config, posts, tags))
}
