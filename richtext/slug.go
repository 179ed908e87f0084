package richtext

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Slug turns s into a URL fragment: NFC-normalized, lowercased, spaces
// hyphenated, everything but letters, digits, marks, '-' and '_' dropped.
// It does not de-duplicate; use a Slugger for anchors within one document.
func Slug(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	s = cases.Lower(language.Und).String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Slugger hands out unique slugs for one document. Repeats of a base slug
// get "-1", "-2", ... appended. The zero value is not usable; call NewSlugger.
type Slugger struct {
	seen map[string]int
}

func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Slug returns the unique slug for value.
func (s *Slugger) Slug(value string) string {
	base := Slug(value)
	result := base
	for {
		if _, taken := s.seen[result]; !taken {
			break
		}
		s.seen[base]++
		result = base + "-" + strconv.Itoa(s.seen[base])
	}
	s.seen[result] = 0
	return result
}

// Reserve marks slug as taken without generating it.
func (s *Slugger) Reserve(slug string) {
	if _, ok := s.seen[slug]; !ok {
		s.seen[slug] = 0
	}
}

// Reset forgets every slug handed out so far.
func (s *Slugger) Reset() {
	clear(s.seen)
}
