package portablepress

import "time"

// PageMetadata carries per-page SEO, OpenGraph and Twitter card data into
// the <head> template.
type PageMetadata struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         string      `json:"url"` // canonical + og:url
	OpenGraph   OpenGraph   `json:"openGraph"`
	Twitter     TwitterCard `json:"twitter"`
}

// OpenGraph holds og:* properties.
type OpenGraph struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	SiteName      string   `json:"siteName"`
	Locale        string   `json:"locale"`
	Type          string   `json:"type"` // "website" or "article"
	URL           string   `json:"url"`
	PublishedTime string   `json:"publishedTime,omitempty"`
	ModifiedTime  string   `json:"modifiedTime,omitempty"`
	Images        []string `json:"images"`
	Authors       []string `json:"authors,omitempty"`
}

// TwitterCard holds twitter:* properties.
type TwitterCard struct {
	Card        string   `json:"card"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// SiteMetadata describes a non-article page such as a listing.
func SiteMetadata(site SiteConfig, title, description, pageURL string) PageMetadata {
	if title == "" {
		title = site.Title
	}
	if description == "" {
		description = site.Description
	}
	images := nonEmpty(AbsoluteURL(site, site.SocialBanner))
	return PageMetadata{
		Title:       title,
		Description: description,
		URL:         pageURL,
		OpenGraph: OpenGraph{
			Title:       title,
			Description: description,
			SiteName:    site.Title,
			Locale:      site.Locale,
			Type:        "website",
			URL:         pageURL,
			Images:      images,
		},
		Twitter: TwitterCard{
			Card:        "summary_large_image",
			Title:       title,
			Description: description,
			Images:      images,
		},
	}
}

// PostMetadata describes a post page. Images fall back to the site banner
// and are made absolute; authors fall back to the site author.
func PostMetadata(meta PostMeta, site SiteConfig) PageMetadata {
	pageURL := meta.CanonicalURL
	if pageURL == "" {
		pageURL = PostURL(site, meta.Slug)
	}

	images := make([]string, 0, len(meta.Images))
	for _, img := range meta.Images {
		images = append(images, AbsoluteURL(site, img.URL))
	}
	if len(images) == 0 {
		images = nonEmpty(AbsoluteURL(site, site.SocialBanner))
	}

	authors := meta.Authors
	if len(authors) == 0 {
		authors = nonEmpty(site.Author)
	}

	return PageMetadata{
		Title:       meta.Title,
		Description: meta.Summary,
		URL:         pageURL,
		OpenGraph: OpenGraph{
			Title:         meta.Title,
			Description:   meta.Summary,
			SiteName:      site.Title,
			Locale:        site.Locale,
			Type:          "article",
			URL:           pageURL,
			PublishedTime: isoTime(meta.Published()),
			ModifiedTime:  isoTime(meta.Modified()),
			Images:        images,
			Authors:       authors,
		},
		Twitter: TwitterCard{
			Card:        "summary_large_image",
			Title:       meta.Title,
			Description: meta.Summary,
			Images:      images,
		},
	}
}

func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func nonEmpty(vals ...string) []string {
	return FilterEmpty(vals)
}
