// Package search implements the query engine: tokenizing free-form queries,
// matching tokens against reference records, and ranking the results.
package search

import (
	"strings"
	"unicode"
)

// Field identifies a record field a token can be scoped to.
type Field string

// Recognized field scopes. An unknown prefix before ':' is not a scope and is
// kept as literal query text.
const (
	FieldAuthor  Field = "author"
	FieldTitle   Field = "title"
	FieldYear    Field = "year"
	FieldDOI     Field = "doi"
	FieldPMID    Field = "pmid"
	FieldPMCID   Field = "pmcid"
	FieldISBN    Field = "isbn"
	FieldURL     Field = "url"
	FieldKeyword Field = "keyword"
	FieldTag     Field = "tag"
	FieldID      Field = "id"

	// FieldFulltext marks evidence from the attachment fulltext cache. It is
	// never produced by the tokenizer, only by the matcher's fulltext fallback.
	FieldFulltext Field = "fulltext"
)

// scopes is the closed set of prefixes the tokenizer recognizes.
var scopes = map[string]Field{
	"author":  FieldAuthor,
	"title":   FieldTitle,
	"year":    FieldYear,
	"doi":     FieldDOI,
	"pmid":    FieldPMID,
	"pmcid":   FieldPMCID,
	"isbn":    FieldISBN,
	"url":     FieldURL,
	"keyword": FieldKeyword,
	"tag":     FieldTag,
	"id":      FieldID,
}

// Token is one parsed query fragment.
type Token struct {
	Raw      string // Original fragment as it appeared in the query
	Value    string // Text to match, quotes and field prefix removed
	Field    Field  // Empty for multi-field (free text) tokens
	IsPhrase bool   // True if the value was quoted
}

// maxAcronymLen bounds the acronym heuristic. Real acronyms (AI, RNA,
// CRISPR) are short; a longer all-uppercase word like MACHINE is shouted
// prose and still matches case-insensitively.
const maxAcronymLen = 6

// CaseSensitive reports whether the token must be compared case-sensitively
// against raw field text. Short tokens of only uppercase letters (AI, RNA,
// CRISPR) are treated as acronyms so they do not match lowercase prose.
// Quoted phrases are explicit text and never get the acronym treatment.
func (t Token) CaseSensitive() bool {
	if t.IsPhrase {
		return false
	}
	n := 0
	for _, r := range t.Value {
		if !unicode.IsUpper(r) {
			return false
		}
		n++
	}
	return n >= 2 && n <= maxAcronymLen
}

// Tokenize splits a query string into tokens in order of appearance.
// Quoted phrases are atomic: whitespace inside quotes does not split.
// A blank or whitespace-only query yields zero tokens; callers implementing
// "empty query matches everything" must handle that before matching.
func Tokenize(query string) []Token {
	var tokens []Token
	for _, frag := range splitFragments(query) {
		tokens = append(tokens, parseFragment(frag))
	}
	return tokens
}

// splitFragments splits on whitespace while keeping quoted spans intact.
func splitFragments(query string) []string {
	var frags []string
	var cur strings.Builder
	inQuote := false

	for _, r := range query {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case unicode.IsSpace(r) && !inQuote:
			if cur.Len() > 0 {
				frags = append(frags, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		frags = append(frags, cur.String())
	}
	return frags
}

// parseFragment classifies one fragment as field-scoped or free text.
func parseFragment(frag string) Token {
	tok := Token{Raw: frag}

	rest := frag
	if idx := strings.Index(frag, ":"); idx > 0 && !strings.HasPrefix(frag, `"`) {
		prefix := strings.ToLower(frag[:idx])
		value := frag[idx+1:]
		if field, ok := scopes[prefix]; ok && value != "" {
			tok.Field = field
			rest = value
		}
	}

	if strings.HasPrefix(rest, `"`) && strings.HasSuffix(rest, `"`) && len(rest) >= 2 {
		tok.IsPhrase = true
		rest = rest[1 : len(rest)-1]
	}
	tok.Value = rest
	return tok
}
