package richtext

// OutlineEntry is one heading of a document's table of contents.
type OutlineEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Slug  string `json:"slug"`
}

// ExtractOutline lists the document's headings in order. Only top-level text
// blocks styled h1..h6 count; slugs are unique within the document. A heading
// with no sluggable text gets "heading".
func ExtractOutline(blocks Blocks) []OutlineEntry {
	return extractOutline(blocks, NewSlugger())
}

func extractOutline(blocks Blocks, slugger *Slugger) []OutlineEntry {
	entries := make([]OutlineEntry, 0)
	for _, blk := range blocks {
		tb, ok := blk.(TextBlock)
		if !ok {
			continue
		}
		level, ok := HeadingLevel(tb.Style)
		if !ok {
			continue
		}
		text := tb.Text()
		entries = append(entries, OutlineEntry{
			Level: level,
			Text:  text,
			Slug:  headingSlug(slugger, text),
		})
	}
	return entries
}

func headingSlug(slugger *Slugger, text string) string {
	if Slug(text) == "" {
		return slugger.Slug("heading")
	}
	return slugger.Slug(text)
}
