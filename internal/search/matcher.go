package search

import (
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// FieldMatch is evidence that one token matched one field of one record.
type FieldMatch struct {
	Field    Field    `json:"field"`
	Strength Strength `json:"strength"`
	Value    string   `json:"value"` // The field text that matched, for highlighting
}

// Result is the outcome of matching one record against every token of a query.
type Result struct {
	Ref             reference.Reference `json:"reference"`
	Matches         []FieldMatch        `json:"matches,omitempty"`
	OverallStrength Strength            `json:"strength"`
	Score           int                 `json:"score"`

	// index is the record's position in the input collection. It is the
	// final sort tie-break, guaranteeing deterministic ordering.
	index int
}

// FulltextLookup resolves a search term to the set of record uuids whose
// attachment text contains it. Injected by callers that maintain a fulltext
// cache; nil disables the fallback.
type FulltextLookup func(term string) map[string]bool

// MatchToken evaluates a single token against a record and returns every
// piece of field evidence it produces. The returned slice is empty when
// nothing matches. Malformed or missing fields are non-matches, not errors.
func MatchToken(tok Token, ref reference.Reference) []FieldMatch {
	if tok.Field != "" {
		return matchField(tok.Field, tok, ref)
	}

	var matches []FieldMatch
	for _, f := range freeTextFields {
		matches = append(matches, matchField(f, tok, ref)...)
	}
	return matches
}

// matchField evaluates the token against one field's extracted values.
func matchField(f Field, tok Token, ref reference.Reference) []FieldMatch {
	fm, ok := fieldMatchers[f]
	if !ok {
		return nil
	}

	var matches []FieldMatch
	for _, v := range fm.extract(ref) {
		if fm.compare(v, tok) {
			matches = append(matches, FieldMatch{Field: f, Strength: fm.strength(), Value: v})
		}
	}
	return matches
}

// MatchReference decides whether a record matches all tokens (AND semantics,
// OR across fields within a token) and returns the aggregate result, or nil
// when any token fails. An empty token list returns nil; the "empty query
// matches everything" rule belongs to the Search operation, not the matcher.
func MatchReference(ref reference.Reference, tokens []Token) *Result {
	return matchReference(ref, tokens, nil)
}

func matchReference(ref reference.Reference, tokens []Token, fulltext FulltextLookup) *Result {
	if len(tokens) == 0 {
		return nil
	}

	var all []FieldMatch
	exact := false
	for _, tok := range tokens {
		matches := MatchToken(tok, ref)
		if len(matches) == 0 && fulltext != nil && tok.Field == "" {
			if uuids := fulltext(tok.Value); uuids[ref.Custom.UUID] {
				matches = []FieldMatch{{Field: FieldFulltext, Strength: StrengthPartial, Value: tok.Value}}
			}
		}
		if len(matches) == 0 {
			return nil
		}
		for _, m := range matches {
			if m.Strength == StrengthExact {
				exact = true
			}
		}
		all = append(all, matches...)
	}

	strength := StrengthPartial
	score := 50
	if exact {
		strength = StrengthExact
		score = 100
	}
	// The score is a coarse tie-break only; the sorter's comparator is
	// authoritative for final ordering.
	score += len(tokens)

	return &Result{
		Ref:             ref,
		Matches:         all,
		OverallStrength: strength,
		Score:           score,
	}
}
