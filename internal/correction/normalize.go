package correction

import (
	"unicode"
	"unicode/utf8"
)

// normalize casefolds, drops punctuation and collapses whitespace runs.
func normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case isSpace(r):
			space = true
		case unicode.IsPunct(r):
			// skip
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// runeOffset converts a byte offset into text to a rune offset.
func runeOffset(text string, b int) int {
	return utf8.RuneCountInString(text[:b])
}
