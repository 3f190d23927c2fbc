package suggest

import (
	"strings"
	"unicode"
)

// Canonicalize normalizes a raw query before indexing or suggesting:
// lowercase, punctuation dropped, whitespace runs collapsed to single
// spaces, ends trimmed. The same step runs on corpus entries at build time
// and on the user's input before any strategy, so it defines what counts as
// a matching prefix. A query of only whitespace or punctuation canonicalizes
// to "".
func Canonicalize(query string) string {
	var b strings.Builder
	b.Grow(len(query))

	pendingSpace := false
	for _, r := range strings.ToLower(query) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
