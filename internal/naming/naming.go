// Package naming converts Go identifiers to the separated lower-case forms
// used on the Slack wire.
package naming

import (
	"strings"
	"unicode"
)

// Snake converts an identifier such as "TeamID" or "URLPrivate" to
// "team_id" and "url_private". Strings already in snake_case are returned
// unchanged.
func Snake(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		switch {
		case r == ' ' || r == '_' || r == '-':
			if b.Len() > 0 && i+1 < len(runes) && !isSeparator(runes[i+1]) {
				b.WriteByte('_')
			}

		case unicode.IsUpper(r):
			if i > 0 && !isSeparator(runes[i-1]) {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

				// a boundary is a lower/digit to upper change, or the last
				// capital of an acronym followed by a lower-case letter
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}

			b.WriteRune(unicode.ToLower(r))

		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-'
}
