package portablepress

import "context"

// Query names used in errors and metrics.
const (
	QueryAllPosts     = "allPosts"
	QueryPostBySlug   = "postBySlug"
	QueryAllAuthors   = "allAuthors"
	QueryAuthorBySlug = "authorBySlug"
	QueryTags         = "tags"
	QueryPostsByTag   = "postsByTag"
)

// Source is the upstream content store. Implementations exclude draft
// documents unless the context is marked with WithPreview. Single-document
// lookups return ErrNotFound when nothing matches; transport and query
// failures come back as *UpstreamFetchError.
type Source interface {
	FetchAllPosts(ctx context.Context) ([]RawPost, error)
	FetchPostBySlug(ctx context.Context, slug string) (RawPost, error)
	FetchAllAuthors(ctx context.Context) ([]RawAuthor, error)
	FetchAuthorBySlug(ctx context.Context, slug string) (RawAuthor, error)
	// FetchTagRaw returns the tag list of every post.
	FetchTagRaw(ctx context.Context) ([][]string, error)
	// FetchPostsByTag returns the posts having a tag whose slug is tag.
	FetchPostsByTag(ctx context.Context, tag string) ([]RawPost, error)
}

// AssetResolver turns an image asset reference into a URL.
type AssetResolver interface {
	Resolve(ref AssetRef) (string, error)
}

// AssetResolverFunc adapts a function to AssetResolver.
type AssetResolverFunc func(ref AssetRef) (string, error)

func (f AssetResolverFunc) Resolve(ref AssetRef) (string, error) { return f(ref) }

type previewKey struct{}

// WithPreview marks ctx as a draft preview request.
func WithPreview(ctx context.Context) context.Context {
	return context.WithValue(ctx, previewKey{}, true)
}

// PreviewFromContext reports whether ctx was marked with WithPreview.
func PreviewFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(previewKey{}).(bool)
	return v
}
