package portablepress

import (
	"path"
	"strings"

	"github.com/eringen/portablepress/richtext"
)

// Defaults applied by the legacy adapter.
const (
	LegacyReadingTime = "0 min read"
	legacyContentType = "mdx"
)

// RawFileInfo describes the synthetic source file a legacy document claims
// to come from.
type RawFileInfo struct {
	FlattenedPath  string `json:"flattenedPath"`
	SourceFilePath string `json:"sourceFilePath"`
	SourceFileName string `json:"sourceFileName"`
	SourceDirName  string `json:"sourceDirName"`
	ContentType    string `json:"contentType"`
}

// LegacyBody is the body shape of file-based documents. Code mirrors Raw.
type LegacyBody struct {
	Raw  string `json:"raw"`
	HTML string `json:"html"`
	Code string `json:"code"`
}

// LegacyPost is a post in the file-based document contract. Every field is
// populated; none serializes as null.
type LegacyPost struct {
	ID             string                  `json:"_id"`
	Type           string                  `json:"type"`
	Title          string                  `json:"title"`
	Slug           string                  `json:"slug"`
	Date           string                  `json:"date"`
	Lastmod        string                  `json:"lastmod"`
	Draft          bool                    `json:"draft"`
	Summary        string                  `json:"summary"`
	Tags           []string                `json:"tags"`
	Images         []Image                 `json:"images"`
	Authors        []string                `json:"authors"`
	Layout         string                  `json:"layout"`
	Bibliography   string                  `json:"bibliography"`
	CanonicalURL   string                  `json:"canonicalUrl"`
	ReadingTime    string                  `json:"readingTime"`
	Path           string                  `json:"path"`
	FilePath       string                  `json:"filePath"`
	Toc            []richtext.OutlineEntry `json:"toc"`
	StructuredData StructuredData          `json:"structuredData"`
	Body           LegacyBody              `json:"body"`
	Raw            RawFileInfo             `json:"_raw"`
}

// LegacyAuthor is an author in the file-based document contract.
type LegacyAuthor struct {
	ID         string          `json:"_id"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	Avatar     string          `json:"avatar"`
	Occupation string          `json:"occupation"`
	Company    string          `json:"company"`
	Email      string          `json:"email"`
	Twitter    string          `json:"twitter"`
	Bluesky    string          `json:"bluesky"`
	Linkedin   string          `json:"linkedin"`
	Github     string          `json:"github"`
	Wechat     string          `json:"wechat"`
	Layout     string          `json:"layout"`
	Bio        richtext.Blocks `json:"bio"`
	BioHTML    string          `json:"bioHtml"`
	Raw        RawFileInfo     `json:"_raw"`
}

// stringDefault fills one string field when it is empty. Defaults are
// applied in table order, so later entries may depend on earlier ones.
type stringDefault[T any] struct {
	field func(*T) *string
	value func(*T) string
}

func fixed[T any](s string) func(*T) string {
	return func(*T) string { return s }
}

var legacyPostDefaults = []stringDefault[LegacyPost]{
	{func(p *LegacyPost) *string { return &p.Type }, fixed[LegacyPost](TypePost)},
	{func(p *LegacyPost) *string { return &p.Layout }, fixed[LegacyPost](DefaultPostLayout)},
	{func(p *LegacyPost) *string { return &p.ReadingTime }, fixed[LegacyPost](LegacyReadingTime)},
	{func(p *LegacyPost) *string { return &p.Lastmod }, func(p *LegacyPost) string { return p.Date }},
	{func(p *LegacyPost) *string { return &p.Path }, func(p *LegacyPost) string { return "blog/" + p.Slug }},
	{func(p *LegacyPost) *string { return &p.FilePath }, func(p *LegacyPost) string { return "blog/" + p.Slug + ".mdx" }},
	{func(p *LegacyPost) *string { return &p.Body.Code }, func(p *LegacyPost) string { return p.Body.Raw }},
}

var legacyAuthorDefaults = []stringDefault[LegacyAuthor]{
	{func(a *LegacyAuthor) *string { return &a.Type }, fixed[LegacyAuthor](TypeAuthor)},
	{func(a *LegacyAuthor) *string { return &a.Layout }, fixed[LegacyAuthor](DefaultAuthorLayout)},
}

func applyDefaults[T any](doc *T, table []stringDefault[T]) {
	for _, d := range table {
		if f := d.field(doc); *f == "" {
			*f = d.value(doc)
		}
	}
}

func orEmpty[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}

// ToLegacy converts a normalized post to the file-based contract. It does
// not touch the filesystem.
func ToLegacy(p Post) LegacyPost {
	lp := LegacyPost{
		ID:             p.ID,
		Type:           p.Type,
		Title:          p.Title,
		Slug:           p.Slug,
		Date:           p.Date,
		Lastmod:        p.Lastmod,
		Draft:          p.Draft,
		Summary:        p.Summary,
		Tags:           p.Tags,
		Images:         p.Images,
		Authors:        p.Authors,
		Layout:         p.Layout,
		Bibliography:   p.Bibliography,
		CanonicalURL:   p.CanonicalURL,
		ReadingTime:    p.ReadingTime,
		Path:           p.Path,
		FilePath:       p.FilePath,
		Toc:            p.Toc,
		StructuredData: p.StructuredData,
		Body:           LegacyBody{Raw: p.Body.Raw, HTML: p.Body.HTML},
	}
	return lp.WithDefaults()
}

// WithDefaults fills every empty field of lp. Applying it twice changes
// nothing.
func (lp LegacyPost) WithDefaults() LegacyPost {
	applyDefaults(&lp, legacyPostDefaults)
	lp.Tags = orEmpty(lp.Tags)
	lp.Images = orEmpty(lp.Images)
	lp.Authors = orEmpty(lp.Authors)
	lp.Toc = orEmpty(lp.Toc)
	if lp.StructuredData == nil {
		lp.StructuredData = StructuredData{}
	}
	lp.Raw = fileInfo(lp.Path, lp.FilePath)
	return lp
}

// ToLegacyAuthor converts a normalized author to the file-based contract.
func ToLegacyAuthor(a Author) LegacyAuthor {
	la := LegacyAuthor{
		ID:         a.ID,
		Type:       a.Type,
		Name:       a.Name,
		Slug:       a.Slug,
		Avatar:     a.Avatar,
		Occupation: a.Occupation,
		Company:    a.Company,
		Email:      a.Email,
		Twitter:    a.Twitter,
		Bluesky:    a.Bluesky,
		Linkedin:   a.Linkedin,
		Github:     a.Github,
		Wechat:     a.Wechat,
		Layout:     a.Layout,
		Bio:        a.Bio,
		BioHTML:    a.BioHTML,
	}
	return la.WithDefaults()
}

// WithDefaults fills every empty field of la. Applying it twice changes
// nothing.
func (la LegacyAuthor) WithDefaults() LegacyAuthor {
	applyDefaults(&la, legacyAuthorDefaults)
	if la.Bio == nil {
		la.Bio = richtext.Blocks{}
	}
	la.Raw = fileInfo("authors/"+la.Slug, "data/authors/"+la.Slug+".mdx")
	return la
}

func fileInfo(flattened, filePath string) RawFileInfo {
	dir, name := path.Split(filePath)
	if dir = strings.TrimSuffix(dir, "/"); dir != "" {
		dir = path.Base(dir)
	}
	return RawFileInfo{
		FlattenedPath:  flattened,
		SourceFilePath: filePath,
		SourceFileName: name,
		SourceDirName:  dir,
		ContentType:    legacyContentType,
	}
}
