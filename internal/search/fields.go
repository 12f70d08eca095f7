package search

import (
	"strconv"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/norm"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// Strength grades how a token matched a field.
type Strength string

const (
	// StrengthExact is reserved for identifier-class fields compared with
	// full-string equality.
	StrengthExact Strength = "exact"
	// StrengthPartial is normalized substring containment on content fields.
	StrengthPartial Strength = "partial"
)

// fieldClass selects the comparison semantics for a field.
type fieldClass int

const (
	// classIdentifier requires byte-for-byte, case-sensitive equality.
	classIdentifier fieldClass = iota
	// classContent uses diacritic-stripped, case-folded substring containment.
	classContent
)

// fieldMatcher declares how one field is extracted from a record and which
// comparison class applies. Identifier vs content behavior is a property of
// the field, not an inline branch in the matching loop.
type fieldMatcher struct {
	class   fieldClass
	extract func(reference.Reference) []string
}

// fieldMatchers maps every searchable field to its matcher strategy.
var fieldMatchers = map[Field]fieldMatcher{
	FieldTitle: {classContent, func(r reference.Reference) []string {
		return nonEmpty(r.Title)
	}},
	FieldAuthor: {classContent, func(r reference.Reference) []string {
		return authorStrings(r)
	}},
	fieldContainer: {classContent, func(r reference.Reference) []string {
		return nonEmpty(r.ContainerTitle)
	}},
	fieldPublisher: {classContent, func(r reference.Reference) []string {
		return nonEmpty(r.Publisher)
	}},
	fieldAbstract: {classContent, func(r reference.Reference) []string {
		return nonEmpty(r.Abstract)
	}},
	FieldKeyword: {classContent, func(r reference.Reference) []string {
		return r.KeywordList()
	}},
	FieldTag: {classContent, func(r reference.Reference) []string {
		return r.Custom.Tags
	}},
	FieldDOI: {classIdentifier, func(r reference.Reference) []string {
		return nonEmpty(r.DOI)
	}},
	FieldPMID: {classIdentifier, func(r reference.Reference) []string {
		return nonEmpty(r.PMID)
	}},
	FieldPMCID: {classIdentifier, func(r reference.Reference) []string {
		return nonEmpty(r.PMCID)
	}},
	FieldISBN: {classIdentifier, func(r reference.Reference) []string {
		return nonEmpty(r.ISBN)
	}},
	FieldURL: {classIdentifier, func(r reference.Reference) []string {
		return append(nonEmpty(r.URL), r.Custom.AdditionalURLs...)
	}},
	FieldYear: {classIdentifier, func(r reference.Reference) []string {
		if y := r.Year(); y != 0 {
			return []string{strconv.Itoa(y)}
		}
		return nil
	}},
	FieldID: {classIdentifier, func(r reference.Reference) []string {
		return append(nonEmpty(r.ID), nonEmpty(r.Custom.UUID)...)
	}},
}

// Internal field names for fields searchable only through free-text tokens.
const (
	fieldContainer Field = "container-title"
	fieldPublisher Field = "publisher"
	fieldAbstract  Field = "abstract"
)

// freeTextFields is the fixed priority order a token without a field scope is
// evaluated against. Every field that matches contributes evidence.
var freeTextFields = []Field{
	FieldTitle,
	FieldAuthor,
	fieldContainer,
	fieldPublisher,
	FieldDOI,
	FieldPMID,
	FieldPMCID,
	FieldURL,
	FieldKeyword,
	fieldAbstract,
	FieldYear,
}

// compare applies the field's comparison class to one extracted value.
func (fm fieldMatcher) compare(value string, tok Token) bool {
	switch fm.class {
	case classIdentifier:
		return value == tok.Value
	default:
		if tok.CaseSensitive() {
			// Acronym tokens match against raw field text so "AI" does not
			// hit every word containing "ai".
			return strings.Contains(value, tok.Value)
		}
		return norm.FoldContains(value, tok.Value)
	}
}

// strength returns the match strength the field's class reports.
func (fm fieldMatcher) strength() Strength {
	if fm.class == classIdentifier {
		return StrengthExact
	}
	return StrengthPartial
}

// authorStrings derives one matchable string per author: family name plus
// given-name initial ("Smith J"), or the literal name for institutions.
func authorStrings(r reference.Reference) []string {
	var out []string
	for _, a := range r.Author {
		switch {
		case a.Literal != "":
			out = append(out, a.Literal)
		case a.Family != "" && a.Given != "":
			out = append(out, a.Family+" "+initial(a.Given))
		case a.Family != "":
			out = append(out, a.Family)
		}
	}
	return out
}

// initial returns the first rune of a given name.
func initial(given string) string {
	for _, r := range given {
		return string(r)
	}
	return ""
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
