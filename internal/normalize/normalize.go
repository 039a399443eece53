// Package normalize provides utilities for normalizing user-entered names.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, so
// "Cardiologia Básica" and "Cardiologia Basica" produce the same slug.
// Portuguese deck and tag names are full of diacritics.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug converts a display name into a URL-safe lowercase slug.
// Diacritics are stripped, runs of non-alphanumeric characters collapse
// to a single hyphen, and leading/trailing hyphens are trimmed.
// Returns "" when nothing survives normalization; callers treat that as
// invalid input.
func Slug(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw input.
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// Email lowercases and trims an email address for case-insensitive lookups.
func Email(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
