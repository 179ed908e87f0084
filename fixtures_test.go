package portablepress

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/eringen/portablepress/richtext"
)

// fakeSource is an in-memory Source. Drafts are hidden unless the context
// is in preview.
type fakeSource struct {
	mu      sync.Mutex
	posts   []RawPost
	authors []RawAuthor
	err     error
	calls   map[string]int
}

func (f *fakeSource) count(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	if f.err != nil {
		return &UpstreamFetchError{Query: name, Err: f.err}
	}
	return nil
}

func (f *fakeSource) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeSource) visible(ctx context.Context) []RawPost {
	out := make([]RawPost, 0, len(f.posts))
	for _, p := range f.posts {
		if p.Draft && !PreviewFromContext(ctx) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f *fakeSource) FetchAllPosts(ctx context.Context) ([]RawPost, error) {
	if err := f.count(QueryAllPosts); err != nil {
		return nil, err
	}
	return f.visible(ctx), nil
}

func (f *fakeSource) FetchPostBySlug(ctx context.Context, slug string) (RawPost, error) {
	if err := f.count(QueryPostBySlug); err != nil {
		return RawPost{}, err
	}
	for _, p := range f.visible(ctx) {
		if p.Slug.Current == slug {
			return p, nil
		}
	}
	return RawPost{}, ErrNotFound
}

func (f *fakeSource) FetchAllAuthors(context.Context) ([]RawAuthor, error) {
	if err := f.count(QueryAllAuthors); err != nil {
		return nil, err
	}
	return append([]RawAuthor(nil), f.authors...), nil
}

func (f *fakeSource) FetchAuthorBySlug(_ context.Context, slug string) (RawAuthor, error) {
	if err := f.count(QueryAuthorBySlug); err != nil {
		return RawAuthor{}, err
	}
	for _, a := range f.authors {
		if a.Slug.Current == slug {
			return a, nil
		}
	}
	return RawAuthor{}, ErrNotFound
}

func (f *fakeSource) FetchTagRaw(ctx context.Context) ([][]string, error) {
	if err := f.count(QueryTags); err != nil {
		return nil, err
	}
	var lists [][]string
	for _, p := range f.visible(ctx) {
		lists = append(lists, p.Tags)
	}
	return lists, nil
}

func (f *fakeSource) FetchPostsByTag(ctx context.Context, tag string) ([]RawPost, error) {
	if err := f.count(QueryPostsByTag); err != nil {
		return nil, err
	}
	var out []RawPost
	for _, p := range f.visible(ctx) {
		if HasTag(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out, nil
}

func rawPost(slug, date string, tags ...string) RawPost {
	return RawPost{
		ID:    "post-" + slug,
		Type:  KindPost,
		Title: "Title " + slug,
		Slug:  RawSlug{Current: slug},
		Date:  date,
		Tags:  tags,
	}
}

func mustBlocks(t *testing.T, src string) richtext.Blocks {
	t.Helper()
	bs, err := richtext.ParseBlocks([]byte(src))
	if err != nil {
		t.Fatalf("parse blocks: %v", err)
	}
	return bs
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

var testSite = SiteConfig{
	Title:        "Test Blog",
	SiteURL:      "https://blog.example.com",
	Description:  "Notes",
	Author:       "Site Author",
	Locale:       "en_US",
	SocialBanner: "/static/banner.png",
	PostsPerPage: 5,
}
