package portablepress

import (
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"

	"github.com/eringen/portablepress/richtext"
)

// Document kinds as reported by the CMS (_type) and by normalized documents (type).
const (
	KindPost   = "post"
	KindAuthor = "author"

	TypePost   = "Blog"
	TypeAuthor = "Authors"
)

// AssetRef points at an uploaded image.
type AssetRef = richtext.AssetRef

// RawSlug is the CMS slug container.
type RawSlug struct {
	Current string `json:"current"`
}

// RawImage is an image field with its asset reference.
type RawImage struct {
	Asset *AssetRef `json:"asset,omitempty"`
	Alt   string    `json:"alt,omitempty"`
}

// RawAuthorRef is an author entry on a post. Queries dereference it to an
// object with at least a name; a bare string is taken as the name.
type RawAuthorRef struct {
	Name string  `json:"name"`
	Slug RawSlug `json:"slug"`
}

func (r *RawAuthorRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = RawAuthorRef{Name: name}
		return nil
	}
	type fields RawAuthorRef
	return json.Unmarshal(data, (*fields)(r))
}

// RawPost is a post document as fetched from the CMS.
type RawPost struct {
	ID           string          `json:"_id"`
	Type         string          `json:"_type"`
	Title        string          `json:"title"`
	Slug         RawSlug         `json:"slug"`
	Date         string          `json:"date"`
	Lastmod      string          `json:"lastmod,omitempty"`
	Draft        bool            `json:"draft,omitempty"`
	Summary      string          `json:"summary,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Images       []RawImage      `json:"images,omitempty"`
	Authors      []RawAuthorRef  `json:"authors,omitempty"`
	Layout       string          `json:"layout,omitempty"`
	Bibliography string          `json:"bibliography,omitempty"`
	CanonicalURL string          `json:"canonicalUrl,omitempty"`
	Body         richtext.Blocks `json:"body,omitempty"`
}

// RawAuthor is an author document as fetched from the CMS.
type RawAuthor struct {
	ID         string          `json:"_id"`
	Type       string          `json:"_type"`
	Name       string          `json:"name"`
	Slug       RawSlug         `json:"slug"`
	Avatar     *RawImage       `json:"avatar,omitempty"`
	Occupation string          `json:"occupation,omitempty"`
	Company    string          `json:"company,omitempty"`
	Email      string          `json:"email,omitempty"`
	Twitter    string          `json:"twitter,omitempty"`
	Bluesky    string          `json:"bluesky,omitempty"`
	Linkedin   string          `json:"linkedin,omitempty"`
	Github     string          `json:"github,omitempty"`
	Wechat     string          `json:"wechat,omitempty"`
	Layout     string          `json:"layout,omitempty"`
	Bio        richtext.Blocks `json:"bio,omitempty"`
}

// Image is a resolved image.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// StructuredData is a JSON-LD object.
type StructuredData map[string]any

// PostMeta is everything about a post except its body. Listings and the
// search index carry PostMeta only.
type PostMeta struct {
	ID             string                  `json:"_id"`
	Type           string                  `json:"type"`
	Title          string                  `json:"title"`
	Slug           string                  `json:"slug"`
	Date           string                  `json:"date"`
	Lastmod        string                  `json:"lastmod,omitempty"`
	Draft          bool                    `json:"draft"`
	Summary        string                  `json:"summary,omitempty"`
	Tags           []string                `json:"tags"`
	Images         []Image                 `json:"images"`
	Authors        []string                `json:"authors"`
	Layout         string                  `json:"layout"`
	Bibliography   string                  `json:"bibliography,omitempty"`
	CanonicalURL   string                  `json:"canonicalUrl,omitempty"`
	ReadingTime    string                  `json:"readingTime"`
	Path           string                  `json:"path"`
	FilePath       string                  `json:"filePath"`
	Toc            []richtext.OutlineEntry `json:"toc"`
	StructuredData StructuredData          `json:"structuredData"`
}

// Published returns the parsed publication date, or the zero time when the
// date is missing or unparseable.
func (m PostMeta) Published() time.Time {
	return parseDate(m.Date)
}

// Modified returns the last modification date, falling back to Published.
func (m PostMeta) Modified() time.Time {
	if t := parseDate(m.Lastmod); !t.IsZero() {
		return t
	}
	return m.Published()
}

// TagList returns the post's display tags.
func (m PostMeta) TagList() []string { return m.Tags }

// Body carries a post's content.
type Body struct {
	// Raw is the block sequence serialized exactly as fetched.
	Raw  string `json:"raw"`
	HTML string `json:"html"`
}

// Post is a normalized, render-ready post.
type Post struct {
	PostMeta
	Body Body `json:"body"`
}

// Author is a normalized author.
type Author struct {
	ID         string          `json:"_id"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	Avatar     string          `json:"avatar,omitempty"`
	Occupation string          `json:"occupation,omitempty"`
	Company    string          `json:"company,omitempty"`
	Email      string          `json:"email,omitempty"`
	Twitter    string          `json:"twitter,omitempty"`
	Bluesky    string          `json:"bluesky,omitempty"`
	Linkedin   string          `json:"linkedin,omitempty"`
	Github     string          `json:"github,omitempty"`
	Wechat     string          `json:"wechat,omitempty"`
	Layout     string          `json:"layout"`
	Bio        richtext.Blocks `json:"bio"`
	BioHTML    string          `json:"bioHtml,omitempty"`
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
