// internal/matching/normalize.go
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents strips combining marks so "Trois-Rivières" and
// "trois-rivieres" compare equal. Quebec place names are full of them.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims and removes diacritics from a place name.
func Normalize(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// samePlace compares two place names case- and diacritic-insensitively.
// Empty strings never match anything.
func samePlace(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return Normalize(a) == Normalize(b)
}
