package portablepress

import (
	"encoding/json"
	"maps"
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsoluteURL returns ref unchanged when it is already absolute, otherwise
// ref resolved against the site URL.
func AbsoluteURL(site SiteConfig, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(site.SiteURL, "/") + "/" + strings.TrimLeft(ref, "/")
}

// PostURL is the canonical address of the post page for slug.
func PostURL(site SiteConfig, slug string) string {
	return BuildURL(site.SiteURL, "blog", slug)
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current PostMeta, posts []PostMeta) []PostMeta {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := tagSlug(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	related := make([]PostMeta, 0)
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[tagSlug(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// BuildStructuredData returns the BlogPosting JSON-LD object for a post.
// The result depends only on its arguments.
func BuildStructuredData(meta PostMeta, site SiteConfig) StructuredData {
	postURL := meta.CanonicalURL
	if postURL == "" {
		postURL = PostURL(site, meta.Slug)
	}
	modified := meta.Lastmod
	if modified == "" {
		modified = meta.Date
	}
	image := AbsoluteURL(site, site.SocialBanner)
	if len(meta.Images) > 0 {
		image = meta.Images[0].URL
	}

	sd := StructuredData{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      meta.Title,
		"datePublished": meta.Date,
		"dateModified":  modified,
		"description":   meta.Summary,
		"image":         image,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if len(meta.Tags) > 0 {
		sd["keywords"] = strings.Join(meta.Tags, ", ")
	}
	return sd
}

// WithAuthors returns a copy of sd naming authors as the post's authors.
func WithAuthors(sd StructuredData, authors []Author) StructuredData {
	out := maps.Clone(sd)
	if out == nil {
		out = StructuredData{}
	}
	if len(authors) == 0 {
		return out
	}
	people := make([]map[string]string, 0, len(authors))
	for _, a := range authors {
		people = append(people, map[string]string{
			"@type": "Person",
			"name":  a.Name,
		})
	}
	out["author"] = people
	return out
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJSONLD(cfg SiteConfig) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Title,
		"url":         BuildURL(cfg.SiteURL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return MarshalJSONLD(data)
}

// MarshalJSONLD serializes a JSON-LD value for embedding in a script tag.
func MarshalJSONLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
