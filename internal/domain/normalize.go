package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes characters and drops combining marks, so that
// "José" and "Jose" normalize to the same string.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes a person name for matching: lowercase, strip
// diacritics, remove punctuation, collapse whitespace. The same rule is used
// for exact lookups and fuzzy comparison, so both see identical input.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation and symbols are dropped entirely.
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeDocument reduces a tax-ID to digits only, the canonical form for
// system-wide uniqueness checks.
func NormalizeDocument(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
