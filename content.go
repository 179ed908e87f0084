package portablepress

import (
	"context"
	"slices"
	"strconv"
)

// Content is the retrieval facade: it fetches raw documents from a Source
// and hands back normalized ones. It holds no state between calls.
type Content struct {
	Source      Source
	Transformer *Transformer
}

// NewContent returns a Content reading from src.
func NewContent(src Source, t *Transformer) *Content {
	if t == nil {
		t = &Transformer{}
	}
	return &Content{Source: src, Transformer: t}
}

func (c *Content) site() SiteConfig {
	return c.Transformer.Site
}

// AllPosts returns every post, newest first.
func (c *Content) AllPosts(ctx context.Context) ([]Post, error) {
	raws, err := c.Source.FetchAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	return SortByDateDescending(c.Transformer.TransformPosts(raws)), nil
}

// Post returns the post with slug, or ErrNotFound.
func (c *Content) Post(ctx context.Context, slug string) (Post, error) {
	raw, err := c.Source.FetchPostBySlug(ctx, slug)
	if err != nil {
		return Post{}, err
	}
	return c.Transformer.TransformPost(raw)
}

// AllAuthors returns every author.
func (c *Content) AllAuthors(ctx context.Context) ([]Author, error) {
	raws, err := c.Source.FetchAllAuthors(ctx)
	if err != nil {
		return nil, err
	}
	return c.Transformer.TransformAuthors(raws), nil
}

// Author returns the author with slug, or ErrNotFound.
func (c *Content) Author(ctx context.Context, slug string) (Author, error) {
	raw, err := c.Source.FetchAuthorBySlug(ctx, slug)
	if err != nil {
		return Author{}, err
	}
	return c.Transformer.TransformAuthor(raw)
}

// TagCount counts posts per tag slug over the transformed posts, so a post
// the listing skips is never counted.
func (c *Content) TagCount(ctx context.Context) (TagCount, error) {
	posts, err := c.AllPosts(ctx)
	if err != nil {
		return nil, err
	}
	return CountTags(StripBody(posts)), nil
}

// PostsByTag returns the bodyless posts tagged tag (a tag slug), newest first.
func (c *Content) PostsByTag(ctx context.Context, tag string) ([]PostMeta, error) {
	raws, err := c.Source.FetchPostsByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	return StripBody(SortByDateDescending(c.Transformer.TransformPosts(raws))), nil
}

// PostPage is everything a post page renders.
type PostPage struct {
	Post    Post         `json:"post"`
	Prev    *PostMeta    `json:"prev"`
	Next    *PostMeta    `json:"next"`
	Authors []Author     `json:"authors"`
	Related []PostMeta   `json:"related"`
	JSONLD  string       `json:"jsonLd"`
	Meta    PageMetadata `json:"meta"`
}

// PostPage composes the page for slug: the post, its neighbours in the
// newest-first listing, its author records and its JSON-LD.
func (c *Content) PostPage(ctx context.Context, slug string) (PostPage, error) {
	posts, err := c.AllPosts(ctx)
	if err != nil {
		return PostPage{}, err
	}
	idx := slices.IndexFunc(posts, func(p Post) bool { return p.Slug == slug })
	if idx < 0 {
		return PostPage{}, ErrNotFound
	}
	post := posts[idx]
	metas := StripBody(posts)
	prev, next := Neighbors(metas, slug)

	authors, err := c.AllAuthors(ctx)
	if err != nil {
		return PostPage{}, err
	}
	names := post.Authors
	if len(names) == 0 {
		names = []string{"default"}
	}
	details := AuthorsByName(names, authors)

	return PostPage{
		Post:    post,
		Prev:    prev,
		Next:    next,
		Authors: details,
		Related: FilterRelatedPosts(post.PostMeta, metas),
		JSONLD:  MarshalJSONLD(WithAuthors(post.StructuredData, details)),
		Meta:    PostMetadata(post.PostMeta, c.site()),
	}, nil
}

// ListPage is one page of a post listing, optionally restricted to a tag.
type ListPage struct {
	Pagination[PostMeta]
	Tag  string       `json:"tag,omitempty"`
	Tags []TagStat    `json:"tags"`
	Meta PageMetadata `json:"meta"`
	// JSONLD is the WebSite schema of the site.
	JSONLD string `json:"jsonLd"`
}

// ListPage returns page pageNumber of all posts.
func (c *Content) ListPage(ctx context.Context, pageNumber int) (ListPage, error) {
	posts, err := c.AllPosts(ctx)
	if err != nil {
		return ListPage{}, err
	}
	metas := StripBody(posts)
	pageURL := BuildURL(c.site().SiteURL, "blog")
	if pageNumber > 1 {
		pageURL = BuildURL(c.site().SiteURL, "blog", "page", strconv.Itoa(pageNumber))
	}
	return ListPage{
		Pagination: Paginate(metas, c.site().PostsPerPage, pageNumber),
		Tags:       CountTags(metas).Sorted(),
		Meta:       SiteMetadata(c.site(), "Blog", "", pageURL),
		JSONLD:     WebsiteJSONLD(c.site()),
	}, nil
}

// TagListPage returns page pageNumber of the posts tagged tag.
func (c *Content) TagListPage(ctx context.Context, tag string, pageNumber int) (ListPage, error) {
	metas, err := c.PostsByTag(ctx, tag)
	if err != nil {
		return ListPage{}, err
	}
	counts, err := c.TagCount(ctx)
	if err != nil {
		return ListPage{}, err
	}
	return ListPage{
		Pagination: Paginate(metas, c.site().PostsPerPage, pageNumber),
		Tag:        tag,
		Tags:       counts.Sorted(),
		Meta:       SiteMetadata(c.site(), tag, "", BuildURL(c.site().SiteURL, "tags", tag)),
		JSONLD:     WebsiteJSONLD(c.site()),
	}, nil
}

// TagsPage lists every tag with its post count.
type TagsPage struct {
	Tags []TagStat    `json:"tags"`
	Meta PageMetadata `json:"meta"`
}

// TagsPage returns the tag index.
func (c *Content) TagsPage(ctx context.Context) (TagsPage, error) {
	counts, err := c.TagCount(ctx)
	if err != nil {
		return TagsPage{}, err
	}
	return TagsPage{
		Tags: counts.Sorted(),
		Meta: SiteMetadata(c.site(), "Tags", "", BuildURL(c.site().SiteURL, "tags")),
	}, nil
}

// AuthorPage is an author's profile with the posts they wrote.
type AuthorPage struct {
	Author Author       `json:"author"`
	Posts  []PostMeta   `json:"posts"`
	Meta   PageMetadata `json:"meta"`
}

// AuthorPage returns the profile page for the author with slug.
func (c *Content) AuthorPage(ctx context.Context, slug string) (AuthorPage, error) {
	author, err := c.Author(ctx, slug)
	if err != nil {
		return AuthorPage{}, err
	}
	posts, err := c.AllPosts(ctx)
	if err != nil {
		return AuthorPage{}, err
	}
	written := make([]PostMeta, 0)
	for _, p := range StripBody(posts) {
		if len(AuthorsByName(p.Authors, []Author{author})) > 0 {
			written = append(written, p)
		}
	}
	return AuthorPage{
		Author: author,
		Posts:  written,
		Meta:   SiteMetadata(c.site(), author.Name, author.Occupation, BuildURL(c.site().SiteURL, "authors", slug)),
	}, nil
}
