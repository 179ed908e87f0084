package richtext

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// ExtractPlainText returns the readable text of every block, one block per
// line. Unknown blocks contribute any string found under a "text" key.
func ExtractPlainText(blocks Blocks) string {
	lines := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		var text string
		switch b := blk.(type) {
		case TextBlock:
			text = b.Text()
		case ImageBlock:
			text = strings.TrimSpace(b.Alt + " " + b.Caption)
		case CodeBlock:
			text = b.Code
		case BreakBlock:
		case UnknownBlock:
			text = strings.Join(collectText(b.raw), " ")
		}
		if strings.TrimSpace(text) != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

func collectText(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	var out []string
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			if s, ok := t["text"].(string); ok && s != "" {
				out = append(out, s)
			}
			for _, k := range slices.Sorted(maps.Keys(t)) {
				if k != "text" {
					walk(t[k])
				}
			}
		case []any:
			for _, child := range t {
				walk(child)
			}
		}
	}
	walk(v)
	return out
}
