package portablepress

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eringen/portablepress/metrics"
	"github.com/eringen/portablepress/richtext"
)

// Layout names used when a document does not pick one.
const (
	DefaultPostLayout   = "PostLayout"
	DefaultAuthorLayout = "AuthorLayout"
)

var errNoAssetURL = errors.New("asset has no url and no resolver is configured")

// Transformer turns raw CMS documents into normalized ones. Apart from asset
// resolution, which it delegates to Resolver, it is a pure function of its
// input and Site.
type Transformer struct {
	Site     SiteConfig
	Resolver AssetResolver
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

func (t *Transformer) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

func (t *Transformer) recorder() metrics.Recorder {
	return metrics.OrNoop(t.Recorder)
}

// TransformPost normalizes a post. It fails only with *MissingIdentityError
// when the post has no slug; unresolvable images are dropped.
func (t *Transformer) TransformPost(raw RawPost) (Post, error) {
	slug := strings.TrimSpace(raw.Slug.Current)
	if slug == "" {
		t.recorder().IncTransform(KindPost, metrics.ResultSkipped)
		return Post{}, &MissingIdentityError{ID: raw.ID, Kind: KindPost}
	}
	log := t.logger().With("kind", KindPost, "id", raw.ID, "slug", slug)

	var bodyRaw string
	if raw.Body != nil {
		b, err := richtext.Serialize(raw.Body)
		if err != nil {
			return Post{}, fmt.Errorf("portablepress: serialize body of %s: %w", slug, err)
		}
		bodyRaw = string(b)
	}
	html, err := richtext.RenderHTML(raw.Body, richtext.Options{ImageURL: t.bodyImageURL(log)})
	if err != nil {
		log.Warn("Body rendering failed", "error", err)
		html = ""
	}

	text := richtext.ExtractPlainText(raw.Body)
	if strings.TrimSpace(text) == "" {
		text = raw.Summary
	}

	authors := make([]string, 0, len(raw.Authors))
	for _, a := range raw.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	layout := raw.Layout
	if layout == "" {
		layout = DefaultPostLayout
	}

	meta := PostMeta{
		ID:           raw.ID,
		Type:         TypePost,
		Title:        raw.Title,
		Slug:         slug,
		Date:         raw.Date,
		Lastmod:      raw.Lastmod,
		Draft:        raw.Draft,
		Summary:      raw.Summary,
		Tags:         FilterEmpty(raw.Tags),
		Images:       t.resolveImages(log, raw.Images),
		Authors:      authors,
		Layout:       layout,
		Bibliography: raw.Bibliography,
		CanonicalURL: raw.CanonicalURL,
		ReadingTime:  richtext.ReadingTime(text),
		Path:         "blog/" + slug,
		FilePath:     "blog/" + slug + ".mdx",
		Toc:          richtext.ExtractOutline(raw.Body),
	}
	meta.StructuredData = BuildStructuredData(meta, t.Site)

	t.recorder().IncTransform(KindPost, metrics.ResultSuccess)
	return Post{PostMeta: meta, Body: Body{Raw: bodyRaw, HTML: html}}, nil
}

// TransformAuthor normalizes an author. An unresolvable avatar leaves Avatar
// empty.
func (t *Transformer) TransformAuthor(raw RawAuthor) (Author, error) {
	slug := strings.TrimSpace(raw.Slug.Current)
	if slug == "" {
		t.recorder().IncTransform(KindAuthor, metrics.ResultSkipped)
		return Author{}, &MissingIdentityError{ID: raw.ID, Kind: KindAuthor}
	}
	log := t.logger().With("kind", KindAuthor, "id", raw.ID, "slug", slug)

	var avatar string
	if raw.Avatar != nil {
		u, err := t.resolve(raw.Avatar.Asset)
		if err != nil {
			t.dropAsset(log, KindAuthor, err)
		}
		avatar = u
	}

	layout := raw.Layout
	if layout == "" {
		layout = DefaultAuthorLayout
	}
	bio := raw.Bio
	if bio == nil {
		bio = richtext.Blocks{}
	}
	bioHTML, err := richtext.RenderHTML(bio, richtext.Options{ImageURL: t.bodyImageURL(log)})
	if err != nil {
		log.Warn("Bio rendering failed", "error", err)
	}

	t.recorder().IncTransform(KindAuthor, metrics.ResultSuccess)
	return Author{
		ID:         raw.ID,
		Type:       TypeAuthor,
		Name:       raw.Name,
		Slug:       slug,
		Avatar:     avatar,
		Occupation: raw.Occupation,
		Company:    raw.Company,
		Email:      raw.Email,
		Twitter:    raw.Twitter,
		Bluesky:    raw.Bluesky,
		Linkedin:   raw.Linkedin,
		Github:     raw.Github,
		Wechat:     raw.Wechat,
		Layout:     layout,
		Bio:        bio,
		BioHTML:    bioHTML,
	}, nil
}

// TransformPosts normalizes a batch, skipping and logging documents that
// cannot be transformed.
func (t *Transformer) TransformPosts(raws []RawPost) []Post {
	out := make([]Post, 0, len(raws))
	for _, raw := range raws {
		p, err := t.TransformPost(raw)
		if err != nil {
			t.logger().Warn("Skipping post", "id", raw.ID, "error", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

// TransformAuthors normalizes a batch, skipping and logging documents that
// cannot be transformed.
func (t *Transformer) TransformAuthors(raws []RawAuthor) []Author {
	out := make([]Author, 0, len(raws))
	for _, raw := range raws {
		a, err := t.TransformAuthor(raw)
		if err != nil {
			t.logger().Warn("Skipping author", "id", raw.ID, "error", err)
			continue
		}
		out = append(out, a)
	}
	return out
}

func (t *Transformer) resolveImages(log *slog.Logger, raws []RawImage) []Image {
	images := make([]Image, 0, len(raws))
	for _, img := range raws {
		u, err := t.resolve(img.Asset)
		if err != nil {
			t.dropAsset(log, KindPost, err)
			continue
		}
		images = append(images, Image{URL: u, Alt: img.Alt})
	}
	return images
}

func (t *Transformer) resolve(ref *AssetRef) (string, error) {
	if ref == nil {
		return "", &AssetResolutionError{Err: errors.New("image has no asset")}
	}
	if t.Resolver == nil {
		if ref.URL == "" {
			return "", &AssetResolutionError{Ref: ref.Key(), Err: errNoAssetURL}
		}
		return ref.URL, nil
	}
	u, err := t.Resolver.Resolve(*ref)
	if err != nil {
		return "", &AssetResolutionError{Ref: ref.Key(), Err: err}
	}
	if u == "" {
		return "", &AssetResolutionError{Ref: ref.Key(), Err: errNoAssetURL}
	}
	return u, nil
}

func (t *Transformer) bodyImageURL(log *slog.Logger) func(AssetRef) (string, error) {
	return func(ref AssetRef) (string, error) {
		u, err := t.resolve(&ref)
		if err != nil {
			t.dropAsset(log, "body", err)
		}
		return u, err
	}
}

func (t *Transformer) dropAsset(log *slog.Logger, kind string, err error) {
	t.recorder().IncDroppedAsset(kind)
	log.Warn("Dropping unresolvable image", "error", err)
}
