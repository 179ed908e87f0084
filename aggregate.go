package portablepress

import (
	"cmp"
	"slices"
	"time"

	"github.com/eringen/portablepress/richtext"
)

// Dated is implemented by documents that can be ordered by publication date.
type Dated interface {
	Published() time.Time
}

// Tagged is implemented by documents that carry display tags.
type Tagged interface {
	TagList() []string
}

// SortByDateDescending returns a new slice with the newest documents first.
// The sort is stable and documents without a parseable date go last.
func SortByDateDescending[T Dated](docs []T) []T {
	type keyed struct {
		doc T
		at  time.Time
	}
	ks := make([]keyed, len(docs))
	for i, d := range docs {
		ks[i] = keyed{doc: d, at: d.Published()}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.at.IsZero() && b.at.IsZero():
			return 0
		case a.at.IsZero():
			return 1
		case b.at.IsZero():
			return -1
		}
		return b.at.Compare(a.at)
	})
	out := make([]T, len(ks))
	for i, k := range ks {
		out[i] = k.doc
	}
	return out
}

// StripBody projects posts to their metadata.
func StripBody(posts []Post) []PostMeta {
	out := make([]PostMeta, len(posts))
	for i, p := range posts {
		out[i] = p.PostMeta
	}
	return out
}

// Pagination is one page of a listing.
type Pagination[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// HasPrev reports whether a previous page exists.
func (p Pagination[T]) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (p Pagination[T]) HasNext() bool { return p.CurrentPage < p.TotalPages }

// Paginate returns page pageNumber (1-based) of items. Pages below 1 are
// treated as page 1; a pageSize below 1 puts everything on one page; pages
// past the end are empty.
func Paginate[T any](items []T, pageSize, pageNumber int) Pagination[T] {
	if pageSize < 1 {
		pageSize = max(len(items), 1)
	}
	pageNumber = max(pageNumber, 1)

	totalPages := 0
	if len(items) > 0 {
		totalPages = (len(items)-1)/pageSize + 1
	}
	p := Pagination[T]{
		Items:       []T{},
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
	}
	// Compare before multiplying: huge page numbers from the URL overflow.
	if pageNumber > totalPages {
		return p
	}

	start := (pageNumber - 1) * pageSize
	end := min(start+pageSize, len(items))
	p.Items = make([]T, end-start)
	copy(p.Items, items[start:end])
	return p
}

// TagCount maps tag slugs to the number of documents carrying them.
type TagCount map[string]int

// TagStat is one entry of a sorted TagCount.
type TagStat struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Sorted lists the tags by descending count, then by slug.
func (tc TagCount) Sorted() []TagStat {
	out := make([]TagStat, 0, len(tc))
	for tag, n := range tc {
		out = append(out, TagStat{Tag: tag, Count: n})
	}
	slices.SortFunc(out, func(a, b TagStat) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return out
}

func tagSlug(tag string) string {
	return richtext.Slug(tag)
}

// CountTags counts, for every tag slug, the documents carrying it. A
// document counts once per slug however many of its tags map to it.
func CountTags[T Tagged](docs []T) TagCount {
	lists := make([][]string, len(docs))
	for i, d := range docs {
		lists[i] = d.TagList()
	}
	return CountTagLists(lists)
}

// CountTagLists is CountTags over bare per-document tag lists.
func CountTagLists(lists [][]string) TagCount {
	counts := make(TagCount)
	for _, tags := range lists {
		seen := make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			s := tagSlug(tag)
			if s == "" {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			counts[s]++
		}
	}
	return counts
}

// HasTag reports whether any of tags slugs to slug.
func HasTag(tags []string, slug string) bool {
	for _, t := range tags {
		if tagSlug(t) == slug {
			return true
		}
	}
	return false
}

// FilterByTag keeps the documents with a tag whose slug is tag.
func FilterByTag[T Tagged](docs []T, tag string) []T {
	out := make([]T, 0)
	for _, d := range docs {
		if HasTag(d.TagList(), tag) {
			out = append(out, d)
		}
	}
	return out
}

// Neighbors finds the posts around slug in a newest-first listing: prev is
// the next older post, next the next newer one. Either is nil at the ends,
// and both are nil when slug is absent.
func Neighbors(sorted []PostMeta, slug string) (prev, next *PostMeta) {
	idx := slices.IndexFunc(sorted, func(p PostMeta) bool { return p.Slug == slug })
	if idx < 0 {
		return nil, nil
	}
	if idx+1 < len(sorted) {
		p := sorted[idx+1]
		prev = &p
	}
	if idx > 0 {
		n := sorted[idx-1]
		next = &n
	}
	return prev, next
}

// AuthorsByName looks up authors by exact name, falling back to slug, in
// the order of names. Names without a match are skipped.
func AuthorsByName(names []string, authors []Author) []Author {
	out := make([]Author, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(authors, func(a Author) bool { return a.Name == name })
		if i < 0 {
			i = slices.IndexFunc(authors, func(a Author) bool { return a.Slug == name })
		}
		if i >= 0 {
			out = append(out, authors[i])
		}
	}
	return out
}
