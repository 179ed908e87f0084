package richtext

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderHTML renders blocks to HTML through their Markdown rendition. Heading
// ids equal the slugs ExtractOutline reports for the same blocks.
func RenderHTML(blocks Blocks, opts Options) (string, error) {
	if len(blocks) == 0 {
		return "", nil
	}
	ids := newHeadingIDs(blocks)
	ctx := parser.NewContext(parser.WithIDs(ids))

	var buf bytes.Buffer
	if err := md.Convert([]byte(ToMarkdown(blocks, opts)), &buf, parser.WithContext(ctx)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Component wraps rendered HTML for use inside templ views.
func Component(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

// headingIDs feeds goldmark the outline slugs in document order. Headings
// beyond the outline fall back to the same slugger.
type headingIDs struct {
	slugger *Slugger
	queue   []string
}

func newHeadingIDs(blocks Blocks) *headingIDs {
	s := NewSlugger()
	outline := extractOutline(blocks, s)
	queue := make([]string, 0, len(outline))
	for _, e := range outline {
		queue = append(queue, e.Slug)
	}
	return &headingIDs{slugger: s, queue: queue}
}

func (h *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	if kind == ast.KindHeading && len(h.queue) > 0 {
		id := h.queue[0]
		h.queue = h.queue[1:]
		return []byte(id)
	}
	return []byte(headingSlug(h.slugger, string(value)))
}

func (h *headingIDs) Put(value []byte) {
	h.slugger.Reserve(string(value))
}
