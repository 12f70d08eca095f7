package search

import (
	"testing"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

func sampleRef() reference.Reference {
	return reference.Reference{
		ID:             "smith-2023",
		Type:           "article-journal",
		Title:          "Machine Learning in Medicine",
		Author:         []reference.Name{{Family: "Smith", Given: "Jane"}, {Family: "Doe", Given: "John"}},
		ContainerTitle: "Journal of Medical AI",
		Abstract:       "We review applications of machine learning.",
		DOI:            "10.1000/example.2023",
		PMID:           "12345678",
		URL:            "https://example.org/paper",
		Keyword:        "machine learning, medicine",
		Issued:         reference.YearOf(2023),
		Custom: reference.Custom{
			UUID:           "0f6d9a22-aaaa-bbbb-cccc-000000000001",
			Tags:           []string{"to-read"},
			AdditionalURLs: []string{"https://mirror.example.org/paper"},
		},
	}
}

func TestMatchTokenContentFields(t *testing.T) {
	ref := sampleRef()

	tests := []struct {
		name       string
		token      Token
		wantFields []Field
	}{
		{
			name:       "title substring case-insensitive",
			token:      Token{Value: "MACHINE", Field: FieldTitle},
			wantFields: []Field{FieldTitle},
		},
		{
			name:       "diacritic folded match",
			token:      Token{Value: "médicine", Field: FieldTitle},
			wantFields: []Field{FieldTitle},
		},
		{
			name:       "author family name",
			token:      Token{Value: "smith", Field: FieldAuthor},
			wantFields: []Field{FieldAuthor},
		},
		{
			name:       "keyword element",
			token:      Token{Value: "medicine", Field: FieldKeyword},
			wantFields: []Field{FieldKeyword},
		},
		{
			name:       "tag",
			token:      Token{Value: "to-read", Field: FieldTag},
			wantFields: []Field{FieldTag},
		},
		{
			name:       "no match returns empty",
			token:      Token{Value: "astrophysics", Field: FieldTitle},
			wantFields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchToken(tt.token, ref)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("got %d matches, want %d: %+v", len(got), len(tt.wantFields), got)
			}
			for i, m := range got {
				if m.Field != tt.wantFields[i] {
					t.Errorf("match %d field = %s, want %s", i, m.Field, tt.wantFields[i])
				}
				if m.Strength != StrengthPartial {
					t.Errorf("content match strength = %s, want partial", m.Strength)
				}
			}
		})
	}
}

func TestMatchTokenIdentifierFields(t *testing.T) {
	ref := sampleRef()

	tests := []struct {
		name      string
		token     Token
		wantMatch bool
	}{
		{"exact DOI", Token{Value: "10.1000/example.2023", Field: FieldDOI}, true},
		{"DOI substring does not match", Token{Value: "10.1000/example", Field: FieldDOI}, false},
		{"DOI is case-sensitive", Token{Value: "10.1000/EXAMPLE.2023", Field: FieldDOI}, false},
		{"exact PMID", Token{Value: "12345678", Field: FieldPMID}, true},
		{"PMID prefix does not match", Token{Value: "1234", Field: FieldPMID}, false},
		{"exact year", Token{Value: "2023", Field: FieldYear}, true},
		{"wrong year", Token{Value: "2022", Field: FieldYear}, false},
		{"primary URL", Token{Value: "https://example.org/paper", Field: FieldURL}, true},
		{"additional URL", Token{Value: "https://mirror.example.org/paper", Field: FieldURL}, true},
		{"id scope matches citation key", Token{Value: "smith-2023", Field: FieldID}, true},
		{"id scope matches uuid", Token{Value: "0f6d9a22-aaaa-bbbb-cccc-000000000001", Field: FieldID}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchToken(tt.token, ref)
			if (len(got) > 0) != tt.wantMatch {
				t.Fatalf("match = %v, want %v (%+v)", len(got) > 0, tt.wantMatch, got)
			}
			if tt.wantMatch && got[0].Strength != StrengthExact {
				t.Errorf("identifier match strength = %s, want exact", got[0].Strength)
			}
		})
	}
}

func TestMatchTokenFreeText(t *testing.T) {
	ref := sampleRef()

	// A free-text token can collect evidence from several fields at once.
	got := MatchToken(Token{Value: "machine"}, ref)
	fields := map[Field]bool{}
	for _, m := range got {
		fields[m.Field] = true
	}
	for _, want := range []Field{FieldTitle, FieldKeyword, fieldAbstract} {
		if !fields[want] {
			t.Errorf("free-text token missing evidence from %s: %+v", want, got)
		}
	}
}

func TestMatchTokenAcronym(t *testing.T) {
	ref := sampleRef() // Container title "Journal of Medical AI"

	// Uppercase acronym matches raw text only.
	if got := MatchToken(Token{Value: "AI"}, ref); len(got) == 0 {
		t.Error("AI should match container title containing AI")
	}

	lower := ref
	lower.ContainerTitle = "Journal of maize domestication"
	// "ai" appears inside "domestication" only case-insensitively; the
	// acronym heuristic must not let AI match it.
	for _, m := range MatchToken(Token{Value: "AI"}, lower) {
		if m.Field == fieldContainer {
			t.Errorf("acronym AI matched lowercase prose: %+v", m)
		}
	}
}

func TestMatchTokenUppercaseWordIsNotAnAcronym(t *testing.T) {
	ref := sampleRef() // Title "Machine Learning in Medicine"

	// An all-caps word past the acronym length bound folds like any other
	// content term.
	got := MatchToken(Token{Value: "MACHINE", Field: FieldTitle}, ref)
	if len(got) != 1 {
		t.Fatalf("MACHINE should fold against title: %+v", got)
	}
	if got[0].Strength != StrengthPartial {
		t.Errorf("strength = %s, want partial", got[0].Strength)
	}
}

func TestMatchReference(t *testing.T) {
	ref := sampleRef()

	tests := []struct {
		name         string
		tokens       []Token
		wantMatch    bool
		wantStrength Strength
	}{
		{
			name:      "empty token list never matches",
			tokens:    nil,
			wantMatch: false,
		},
		{
			name:         "single content token",
			tokens:       []Token{{Value: "learning"}},
			wantMatch:    true,
			wantStrength: StrengthPartial,
		},
		{
			name:         "AND across tokens all pass",
			tokens:       []Token{{Value: "machine"}, {Value: "smith", Field: FieldAuthor}},
			wantMatch:    true,
			wantStrength: StrengthPartial,
		},
		{
			name:      "AND across tokens one fails",
			tokens:    []Token{{Value: "machine"}, {Value: "astrophysics"}},
			wantMatch: false,
		},
		{
			name:         "identifier token makes overall strength exact",
			tokens:       []Token{{Value: "machine"}, {Value: "2023", Field: FieldYear}},
			wantMatch:    true,
			wantStrength: StrengthExact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchReference(ref, tt.tokens)
			if (got != nil) != tt.wantMatch {
				t.Fatalf("match = %v, want %v", got != nil, tt.wantMatch)
			}
			if got == nil {
				return
			}
			if got.OverallStrength != tt.wantStrength {
				t.Errorf("strength = %s, want %s", got.OverallStrength, tt.wantStrength)
			}
			wantScore := 50 + len(tt.tokens)
			if tt.wantStrength == StrengthExact {
				wantScore = 100 + len(tt.tokens)
			}
			if got.Score != wantScore {
				t.Errorf("score = %d, want %d", got.Score, wantScore)
			}
		})
	}
}

func TestMatchReferenceAndSemantics(t *testing.T) {
	// matchReference is non-nil iff every token has at least one field match.
	ref := sampleRef()
	t1 := Token{Value: "machine"}
	t2 := Token{Value: "smith", Field: FieldAuthor}

	both := MatchReference(ref, []Token{t1, t2})
	if both == nil {
		t.Fatal("expected match when both tokens match")
	}
	if len(MatchToken(t1, ref)) == 0 || len(MatchToken(t2, ref)) == 0 {
		t.Fatal("both tokens should match individually")
	}
}

func TestMatchReferenceFulltextFallback(t *testing.T) {
	ref := sampleRef()
	lookup := func(term string) map[string]bool {
		if term == "mitochondria" {
			return map[string]bool{ref.Custom.UUID: true}
		}
		return nil
	}

	// The term appears nowhere in the record fields, only in the cache.
	res := matchReference(ref, []Token{{Value: "mitochondria"}}, lookup)
	if res == nil {
		t.Fatal("expected fulltext fallback match")
	}
	if res.Matches[0].Field != FieldFulltext {
		t.Errorf("match field = %s, want fulltext", res.Matches[0].Field)
	}

	// Field-scoped tokens never consult the fulltext cache.
	if got := matchReference(ref, []Token{{Value: "mitochondria", Field: FieldTitle}}, lookup); got != nil {
		t.Error("field-scoped token must not fall back to fulltext")
	}
}
