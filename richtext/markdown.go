package richtext

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

// Options tune the Markdown and HTML renditions.
type Options struct {
	// ImageURL resolves an image asset to a URL. Images it cannot resolve are
	// left out. With a nil ImageURL, only assets carrying a URL are rendered.
	ImageURL func(AssetRef) (string, error)
}

func (o Options) imageURL(a AssetRef) string {
	if o.ImageURL == nil {
		return a.URL
	}
	u, err := o.ImageURL(a)
	if err != nil {
		return ""
	}
	return u
}

var markSyntax = map[string]string{
	"strong":         "**",
	"em":             "*",
	"strike-through": "~~",
}

// ToMarkdown renders blocks as CommonMark with GFM strikethrough. Unknown
// block types are skipped. A heading style wins over listItem, so every
// outline entry has a heading to anchor.
func ToMarkdown(blocks Blocks, opts Options) string {
	var (
		b      strings.Builder
		inList bool
	)
	sep := func(listItem bool) {
		if b.Len() == 0 {
			return
		}
		if listItem && inList {
			b.WriteByte('\n')
			return
		}
		b.WriteString("\n\n")
	}

	for _, blk := range blocks {
		switch t := blk.(type) {
		case TextBlock:
			if _, heading := HeadingLevel(t.Style); t.ListItem != "" && !heading {
				sep(true)
				writeListItem(&b, t)
				inList = true
				continue
			}
			sep(false)
			writeTextBlock(&b, t)
		case ImageBlock:
			src := SafeURL(opts.imageURL(t.Asset))
			if src == "" {
				continue
			}
			sep(false)
			b.WriteString("![")
			b.WriteString(escapeInline(t.Alt))
			b.WriteString("](")
			b.WriteString(linkDestination(src))
			if t.Caption != "" {
				b.WriteString(` "`)
				b.WriteString(strings.ReplaceAll(t.Caption, `"`, `\"`))
				b.WriteByte('"')
			}
			b.WriteByte(')')
		case CodeBlock:
			sep(false)
			fence := "```"
			for strings.Contains(t.Code, fence) {
				fence += "`"
			}
			b.WriteString(fence)
			if lang := strings.Fields(t.Language); len(lang) > 0 {
				b.WriteString(lang[0])
			}
			b.WriteByte('\n')
			b.WriteString(strings.TrimRight(t.Code, "\n"))
			b.WriteByte('\n')
			b.WriteString(fence)
		case BreakBlock:
			sep(false)
			b.WriteString("---")
		case UnknownBlock:
			continue
		}
		inList = false
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}

func writeTextBlock(b *strings.Builder, t TextBlock) {
	inline := renderInline(t)
	if level, ok := HeadingLevel(t.Style); ok {
		b.WriteString(strings.Repeat("#", level))
		b.WriteByte(' ')
		b.WriteString(strings.ReplaceAll(inline, "\\\n", " "))
		return
	}
	inline = escapeLineStarts(inline)
	if t.Style == "blockquote" {
		for i, line := range strings.Split(inline, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("> ")
			b.WriteString(line)
		}
		return
	}
	b.WriteString(inline)
}

func writeListItem(b *strings.Builder, t TextBlock) {
	level := max(t.Level, 1)
	indent := strings.Repeat("    ", level-1)
	marker := "- "
	if t.ListItem == "number" {
		marker = "1. "
	}
	b.WriteString(indent)
	b.WriteString(marker)
	inline := escapeLineStarts(renderInline(t))
	pad := indent + strings.Repeat(" ", len(marker))
	b.WriteString(strings.ReplaceAll(inline, "\n", "\n"+pad))
}

func renderInline(t TextBlock) string {
	links := make(map[string]string, len(t.MarkDefs))
	for _, def := range t.MarkDefs {
		if def.Type == "link" {
			links[def.Key] = def.Href
		}
	}

	var b strings.Builder
	for _, span := range t.Children {
		b.WriteString(renderSpan(span, links))
	}
	return strings.ReplaceAll(b.String(), "\n", "\\\n")
}

func renderSpan(span Span, links map[string]string) string {
	lead, core, trail := splitSpace(span.Text)
	if core == "" {
		return span.Text
	}

	var code bool
	for _, m := range span.Marks {
		if m == "code" {
			code = true
		}
	}
	if code {
		core = codeSpan(core)
	} else {
		core = escapeInline(core)
	}

	var href string
	for _, m := range span.Marks {
		if syntax, ok := markSyntax[m]; ok {
			core = syntax + core + syntax
			continue
		}
		if h, ok := links[m]; ok {
			href = h
		}
	}
	if href != "" {
		if safe := SafeURL(href); safe != "" {
			core = "[" + core + "](" + linkDestination(safe) + ")"
		}
	}
	return lead + core + trail
}

func splitSpace(s string) (lead, core, trail string) {
	core = strings.TrimLeft(s, " \t")
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRight(core, " \t")
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}

func codeSpan(s string) string {
	ticks := "`"
	for strings.Contains(s, ticks) {
		ticks += "`"
	}
	if len(ticks) > 1 || strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return ticks + " " + s + " " + ticks
	}
	return ticks + s + ticks
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`~`, `\~`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`&`, `\&`,
	`|`, `\|`,
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

var orderedMarker = regexp.MustCompile(`^(\d+)([.)])`)

// escapeLineStarts keeps paragraph lines from being read as block syntax.
func escapeLineStarts(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		switch {
		case line == "":
		case strings.ContainsRune("#-+=>", rune(line[0])):
			lines[i] = `\` + line
		case orderedMarker.MatchString(line):
			lines[i] = orderedMarker.ReplaceAllString(line, `$1\$2`)
		}
	}
	return strings.Join(lines, "\n")
}

func linkDestination(u string) string {
	if strings.ContainsAny(u, " ()<>") {
		return "<" + strings.NewReplacer("<", "%3C", ">", "%3E").Replace(u) + ">"
	}
	return u
}

// SafeURL returns raw if it is a relative link, an in-page anchor or an
// http(s), mailto or tel URL, and "" otherwise.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
