// Package citekey generates human-readable citation keys and resolves key
// collisions deterministically.
package citekey

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ncukondo/reference-manager-sub005/internal/norm"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// stopwords are skipped when deriving a key from a title.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "on": true, "in": true,
	"and": true, "or": true, "for": true, "to": true, "with": true,
}

// Allocation reports the identifier assigned to a new record. Renamed is true
// when a suffix was appended to avoid colliding with an existing key.
type Allocation struct {
	ID       string `json:"id"`
	Original string `json:"original_id"`
	Renamed  bool   `json:"renamed"`
}

// Generate derives a citation key from a record's bibliographic data:
// first-author family name plus year ("smith-2020"), falling back to the
// first significant title word when the record has no authors. Keys are
// normalized to lowercase ASCII.
func Generate(ref reference.Reference) string {
	stem := sanitize(ref.FirstAuthorFamily())
	if stem == "" {
		stem = titleStem(ref.Title)
	}
	if stem == "" {
		stem = "ref"
	}

	if y := ref.Year(); y != 0 {
		return stem + "-" + strconv.Itoa(y)
	}
	return stem
}

// Allocate resolves base against the set of taken keys by appending letter
// suffixes: base, basea, baseb, ... basez, baseaa, baseab, and so on. The
// scheme is unbounded; after z it continues with two-letter suffixes in the
// same bijective ordering. Existing keys are never renamed, only the new key
// is suffixed. Deterministic: the same base and taken set always produce the
// same result.
func Allocate(base string, taken map[string]bool) Allocation {
	id := base
	for n := 1; taken[id]; n++ {
		id = base + suffix(n)
	}
	return Allocation{ID: id, Original: base, Renamed: id != base}
}

// suffix converts 1-based n to a letter suffix: 1..26 -> a..z, 27 -> aa.
// Bijective base-26, the spreadsheet column scheme.
func suffix(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('a' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// Sanitize normalizes an externally supplied citation key (e.g. a BibTeX
// key) to canonical casing: diacritics stripped, lowercased, restricted to
// letters, digits, and the separators - _ . : .
func Sanitize(key string) string {
	folded := norm.Fold(key)
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.', r == ':':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sanitize folds a name fragment to lowercase ASCII letters and digits.
func sanitize(s string) string {
	folded := norm.Fold(s)
	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// titleStem returns the first significant word of a title, sanitized.
func titleStem(title string) string {
	for _, w := range strings.FieldsFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		w = sanitize(w)
		if w == "" || stopwords[w] {
			continue
		}
		return w
	}
	return ""
}
