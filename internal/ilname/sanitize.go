package ilname

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// sanitizeChars is the fixed set of characters the §4.A sanitizer collapses
// to an underscore: nested-type separator, path separator, generic angle
// brackets and comma, backtick, and the arithmetic-looking operators that
// show up in compiler-synthesized names (e.g. `<>c__DisplayClass-1`).
const sanitizeChars = "./<>,`+=-"

// sanitize is the final step of §4.A's projection rules: it Unicode-
// normalizes an arbitrary identifier (so that IL names carrying combining
// marks or alternate codepoint forms for the same character mangle
// identically) and then replaces every character in sanitizeChars with an
// underscore, deleting spaces outright.
func sanitize(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ' ':
			continue
		case strings.ContainsRune(sanitizeChars, r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
