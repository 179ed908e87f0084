// Package richtext models Portable Text content as a typed block sequence and
// derives facts from it: heading outlines, plain text, reading time and
// Markdown/HTML renditions.
package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies the concrete type behind a Block.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindCode
	KindBreak
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "block"
	case KindImage:
		return "image"
	case KindCode:
		return "code"
	case KindBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Block is one node of a rich-text document. The concrete types are
// TextBlock, ImageBlock, CodeBlock, BreakBlock and UnknownBlock; every switch
// over blocks in this package handles all five.
type Block interface {
	json.Marshaler
	Kind() Kind
	// RawJSON returns the block as it was decoded, compacted. It is nil for
	// blocks built in code.
	RawJSON() json.RawMessage
	isBlock()
}

// AssetRef points at an uploaded asset. Depending on the query it carries a
// reference (_ref), a dereferenced asset document id (_id) and/or its URL.
type AssetRef struct {
	Type string `json:"_type,omitempty"`
	Ref  string `json:"_ref,omitempty"`
	ID   string `json:"_id,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Key returns the identifier usable to build an asset URL: the reference if
// present, otherwise the asset document id.
func (a AssetRef) Key() string {
	if a.Ref != "" {
		return a.Ref
	}
	return a.ID
}

// Span is an inline child of a text block.
type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef is an annotation referenced from Span.Marks by key, e.g. a link.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}

// TextBlock is a paragraph, heading, quote or list item.
type TextBlock struct {
	Key      string    `json:"_key,omitempty"`
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`

	raw json.RawMessage
}

// ImageBlock is an image placed in the body.
type ImageBlock struct {
	Key     string   `json:"_key,omitempty"`
	Asset   AssetRef `json:"asset"`
	Alt     string   `json:"alt,omitempty"`
	Caption string   `json:"caption,omitempty"`

	raw json.RawMessage
}

// CodeBlock is a fenced code sample.
type CodeBlock struct {
	Key      string `json:"_key,omitempty"`
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	Filename string `json:"filename,omitempty"`

	raw json.RawMessage
}

// BreakBlock is a horizontal rule.
type BreakBlock struct {
	Key   string `json:"_key,omitempty"`
	Style string `json:"style,omitempty"`

	raw json.RawMessage
}

// UnknownBlock is a block of a type this package does not model. It is kept
// verbatim so serialization stays lossless.
type UnknownBlock struct {
	Type string

	raw json.RawMessage
}

func (TextBlock) Kind() Kind    { return KindText }
func (ImageBlock) Kind() Kind   { return KindImage }
func (CodeBlock) Kind() Kind    { return KindCode }
func (BreakBlock) Kind() Kind   { return KindBreak }
func (UnknownBlock) Kind() Kind { return KindUnknown }

func (b TextBlock) RawJSON() json.RawMessage    { return b.raw }
func (b ImageBlock) RawJSON() json.RawMessage   { return b.raw }
func (b CodeBlock) RawJSON() json.RawMessage    { return b.raw }
func (b BreakBlock) RawJSON() json.RawMessage   { return b.raw }
func (b UnknownBlock) RawJSON() json.RawMessage { return b.raw }

func (TextBlock) isBlock()    {}
func (ImageBlock) isBlock()   {}
func (CodeBlock) isBlock()    {}
func (BreakBlock) isBlock()   {}
func (UnknownBlock) isBlock() {}

// Text concatenates the text of the block's inline children.
func (b TextBlock) Text() string {
	var sb strings.Builder
	for _, c := range b.Children {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// HeadingLevel returns the level of a heading style ("h1".."h6").
func HeadingLevel(style string) (int, bool) {
	if len(style) != 2 || style[0] != 'h' || style[1] < '1' || style[1] > '6' {
		return 0, false
	}
	return int(style[1] - '0'), true
}

// MarshalJSON writes the decoded JSON back unchanged, or the typed fields for
// blocks built in code.
func (b TextBlock) MarshalJSON() ([]byte, error) {
	if b.raw != nil {
		return b.raw, nil
	}
	type fields TextBlock
	return json.Marshal(struct {
		Type string `json:"_type"`
		fields
	}{"block", fields(b)})
}

func (b ImageBlock) MarshalJSON() ([]byte, error) {
	if b.raw != nil {
		return b.raw, nil
	}
	type fields ImageBlock
	return json.Marshal(struct {
		Type string `json:"_type"`
		fields
	}{"image", fields(b)})
}

func (b CodeBlock) MarshalJSON() ([]byte, error) {
	if b.raw != nil {
		return b.raw, nil
	}
	type fields CodeBlock
	return json.Marshal(struct {
		Type string `json:"_type"`
		fields
	}{"code", fields(b)})
}

func (b BreakBlock) MarshalJSON() ([]byte, error) {
	if b.raw != nil {
		return b.raw, nil
	}
	type fields BreakBlock
	return json.Marshal(struct {
		Type string `json:"_type"`
		fields
	}{"break", fields(b)})
}

func (b UnknownBlock) MarshalJSON() ([]byte, error) {
	if b.raw != nil {
		return b.raw, nil
	}
	return json.Marshal(struct {
		Type string `json:"_type"`
	}{b.Type})
}

// Blocks is an ordered block sequence, the body of a document.
type Blocks []Block

// ParseBlocks decodes a JSON array of blocks.
func ParseBlocks(data []byte) (Blocks, error) {
	var bs Blocks
	if err := json.Unmarshal(data, &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// UnmarshalJSON decodes each element into its concrete block type and keeps
// the element's compacted JSON for lossless re-serialization.
func (bs *Blocks) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*bs = nil
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("richtext: decode blocks: %w", err)
	}
	out := make(Blocks, 0, len(elems))
	for i, elem := range elems {
		blk, err := decodeBlock(elem)
		if err != nil {
			return fmt.Errorf("richtext: decode block %d: %w", i, err)
		}
		out = append(out, blk)
	}
	*bs = out
	return nil
}

// MarshalJSON encodes the sequence; a nil sequence encodes as null.
func (bs Blocks) MarshalJSON() ([]byte, error) {
	if bs == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, blk := range bs {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := blk.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Serialize encodes the sequence without HTML escaping, so decoded blocks
// come back byte for byte as they were read (modulo whitespace).
func Serialize(bs Blocks) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(bs); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func decodeBlock(elem json.RawMessage) (Block, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, elem); err != nil {
		return nil, err
	}
	raw := json.RawMessage(compact.Bytes())

	var head struct {
		Type string `json:"_type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		// Not an object: keep it as an opaque block.
		return UnknownBlock{raw: raw}, nil
	}

	switch head.Type {
	case "block":
		type fields TextBlock
		var b TextBlock
		if err := json.Unmarshal(raw, (*fields)(&b)); err != nil {
			return nil, err
		}
		b.raw = raw
		return b, nil
	case "image":
		type fields ImageBlock
		var b ImageBlock
		if err := json.Unmarshal(raw, (*fields)(&b)); err != nil {
			return nil, err
		}
		b.raw = raw
		return b, nil
	case "code":
		type fields CodeBlock
		var b CodeBlock
		if err := json.Unmarshal(raw, (*fields)(&b)); err != nil {
			return nil, err
		}
		b.raw = raw
		return b, nil
	case "break":
		type fields BreakBlock
		var b BreakBlock
		if err := json.Unmarshal(raw, (*fields)(&b)); err != nil {
			return nil, err
		}
		b.raw = raw
		return b, nil
	default:
		return UnknownBlock{Type: head.Type, raw: raw}, nil
	}
}
