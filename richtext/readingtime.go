package richtext

import (
	"fmt"
	"unicode"
)

const (
	// WordsPerMinute is the assumed reading speed.
	WordsPerMinute = 200
	// FallbackReadingTime is reported when there is no text to measure.
	FallbackReadingTime = "2 min read"
)

// CountWords counts whitespace-separated tokens. Each CJK ideograph or kana
// counts as a word on its own.
func CountWords(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		switch {
		case isCJK(r):
			words++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	return words
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

// ReadingTime estimates how long text takes to read, rounded up to whole
// minutes, e.g. "3 min read".
func ReadingTime(text string) string {
	words := CountWords(text)
	if words == 0 {
		return FallbackReadingTime
	}
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return fmt.Sprintf("%d min read", minutes)
}
