package portablepress

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/eringen/portablepress/metrics"
)

// CachedSource is a Source decorator that keeps the full post and author
// lists in memory for a TTL. Single-document and tag queries are answered
// from those lists. Preview requests always go to the wrapped source.
type CachedSource struct {
	src      Source
	ttl      time.Duration
	recorder metrics.Recorder

	mu      sync.RWMutex
	posts   cachedList[RawPost]
	authors cachedList[RawAuthor]
}

type cachedList[T any] struct {
	items   []T
	fetched time.Time
	loaded  bool
}

func (l *cachedList[T]) valid(ttl time.Duration) bool {
	return l.loaded && time.Since(l.fetched) < ttl
}

// NewCachedSource wraps src. A ttl of zero or less disables caching.
func NewCachedSource(src Source, ttl time.Duration, rec metrics.Recorder) *CachedSource {
	return &CachedSource{src: src, ttl: ttl, recorder: metrics.OrNoop(rec)}
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.posts = cachedList[RawPost]{}
	c.authors = cachedList[RawAuthor]{}
	c.mu.Unlock()
}

func (c *CachedSource) bypass(ctx context.Context) bool {
	return c.ttl <= 0 || PreviewFromContext(ctx)
}

// ensureLoaded returns the cached list after ensuring it is fresh. It tries
// a read lock first; only takes a write lock if a reload is needed.
func ensureLoaded[T any](ctx context.Context, c *CachedSource, list *cachedList[T], fetch func(context.Context) ([]T, error)) ([]T, error) {
	c.mu.RLock()
	if list.valid(c.ttl) {
		items := list.items
		c.mu.RUnlock()
		c.recorder.IncCacheLookup(true)
		return items, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if list.valid(c.ttl) {
		c.recorder.IncCacheLookup(true)
		return list.items, nil
	}
	c.recorder.IncCacheLookup(false)
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	*list = cachedList[T]{items: items, fetched: time.Now(), loaded: true}
	return items, nil
}

func (c *CachedSource) allPosts(ctx context.Context) ([]RawPost, error) {
	return ensureLoaded(ctx, c, &c.posts, c.src.FetchAllPosts)
}

func (c *CachedSource) allAuthors(ctx context.Context) ([]RawAuthor, error) {
	return ensureLoaded(ctx, c, &c.authors, c.src.FetchAllAuthors)
}

func (c *CachedSource) FetchAllPosts(ctx context.Context) ([]RawPost, error) {
	if c.bypass(ctx) {
		return c.src.FetchAllPosts(ctx)
	}
	posts, err := c.allPosts(ctx)
	return slices.Clone(posts), err
}

func (c *CachedSource) FetchPostBySlug(ctx context.Context, slug string) (RawPost, error) {
	if c.bypass(ctx) {
		return c.src.FetchPostBySlug(ctx, slug)
	}
	posts, err := c.allPosts(ctx)
	if err != nil {
		return RawPost{}, err
	}
	for _, p := range posts {
		if p.Slug.Current == slug {
			return p, nil
		}
	}
	return RawPost{}, ErrNotFound
}

func (c *CachedSource) FetchAllAuthors(ctx context.Context) ([]RawAuthor, error) {
	if c.bypass(ctx) {
		return c.src.FetchAllAuthors(ctx)
	}
	authors, err := c.allAuthors(ctx)
	return slices.Clone(authors), err
}

func (c *CachedSource) FetchAuthorBySlug(ctx context.Context, slug string) (RawAuthor, error) {
	if c.bypass(ctx) {
		return c.src.FetchAuthorBySlug(ctx, slug)
	}
	authors, err := c.allAuthors(ctx)
	if err != nil {
		return RawAuthor{}, err
	}
	for _, a := range authors {
		if a.Slug.Current == slug {
			return a, nil
		}
	}
	return RawAuthor{}, ErrNotFound
}

func (c *CachedSource) FetchTagRaw(ctx context.Context) ([][]string, error) {
	if c.bypass(ctx) {
		return c.src.FetchTagRaw(ctx)
	}
	posts, err := c.allPosts(ctx)
	if err != nil {
		return nil, err
	}
	lists := make([][]string, 0, len(posts))
	for _, p := range posts {
		lists = append(lists, p.Tags)
	}
	return lists, nil
}

func (c *CachedSource) FetchPostsByTag(ctx context.Context, tag string) ([]RawPost, error) {
	if c.bypass(ctx) {
		return c.src.FetchPostsByTag(ctx, tag)
	}
	posts, err := c.allPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RawPost, 0)
	for _, p := range posts {
		if HasTag(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out, nil
}
