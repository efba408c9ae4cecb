package document

import (
	"strings"
	"unicode"
)

// Slug normalizes a heading title into an identifier segment: lowercase,
// any maximal run of characters outside [a-z0-9] collapsed to a single
// "-", leading and trailing "-" stripped. An empty result becomes
// "section" so every heading yields a usable segment.
func Slug(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		r = unicode.ToLower(r) // case-fold runes ToLower may have missed
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		} else {
			pendingDash = true
		}
	}
	s := b.String()
	if s == "" {
		return "section"
	}
	return s
}
