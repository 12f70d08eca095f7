// Package norm provides the text normalization shared by search matching and
// duplicate detection. Both must use the same folding so that a title that
// matches in search also matches in dedup.
package norm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes characters and removes combining marks, so that
// "Müller" folds to "Muller" and "café" to "cafe".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns s with diacritics stripped and case folded to lower.
func Fold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform failures leave the input usable as-is.
		out = s
	}
	return strings.ToLower(out)
}

// FoldContains reports whether needle occurs in haystack after both are folded.
func FoldContains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// FoldEqual reports whether two strings are equal after folding.
func FoldEqual(a, b string) bool {
	return Fold(a) == Fold(b)
}
