package search

import (
	"testing"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

func result(idx int, strength Strength, year int, family, title string) Result {
	return Result{
		Ref: reference.Reference{
			ID:     family,
			Title:  title,
			Author: authorsFor(family),
			Issued: reference.YearOf(year),
		},
		OverallStrength: strength,
		index:           idx,
	}
}

func authorsFor(family string) []reference.Name {
	if family == "" {
		return nil
	}
	return []reference.Name{{Family: family}}
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Ref.ID
	}
	return out
}

func TestSortResults(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    []string // Expected order of Ref.ID
	}{
		{
			name: "exact before partial regardless of year",
			results: []Result{
				result(0, StrengthPartial, 2024, "newer", "A"),
				result(1, StrengthExact, 1999, "older", "B"),
			},
			want: []string{"older", "newer"},
		},
		{
			name: "year descending",
			results: []Result{
				result(0, StrengthPartial, 2020, "a", "T"),
				result(1, StrengthPartial, 2024, "b", "T"),
				result(2, StrengthPartial, 2022, "c", "T"),
			},
			want: []string{"b", "c", "a"},
		},
		{
			name: "missing year sorts last",
			results: []Result{
				result(0, StrengthPartial, 0, "undated", "T"),
				result(1, StrengthPartial, 2001, "dated", "T"),
			},
			want: []string{"dated", "undated"},
		},
		{
			name: "author ascending case-insensitive",
			results: []Result{
				result(0, StrengthPartial, 2020, "zhang", "T"),
				result(1, StrengthPartial, 2020, "Abe", "T"),
			},
			want: []string{"Abe", "zhang"},
		},
		{
			name: "no author sorts after author",
			results: []Result{
				result(0, StrengthPartial, 2020, "", "T"),
				result(1, StrengthPartial, 2020, "smith", "T"),
			},
			want: []string{"smith", ""},
		},
		{
			name: "title breaks author ties",
			results: []Result{
				result(0, StrengthPartial, 2020, "smith", "Zebra Genomics"),
				result(1, StrengthPartial, 2020, "smith", "Ant Colonies"),
			},
			want: []string{"smith", "smith"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortResults(tt.results)
			got := ids(tt.results)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSortResultsTitleTieBreak(t *testing.T) {
	results := []Result{
		result(0, StrengthPartial, 2020, "smith", "Zebra Genomics"),
		result(1, StrengthPartial, 2020, "smith", "Ant Colonies"),
	}
	SortResults(results)
	if results[0].Ref.Title != "Ant Colonies" {
		t.Errorf("title tie-break failed: %v", ids(results))
	}
}

func TestSortResultsStability(t *testing.T) {
	// Identical on strength, year, author, and title: original input order
	// must be preserved.
	results := []Result{
		result(0, StrengthPartial, 2020, "smith", "Same Title"),
		result(1, StrengthPartial, 2020, "smith", "Same Title"),
		result(2, StrengthPartial, 2020, "smith", "Same Title"),
	}
	results[0].Ref.ID = "first"
	results[1].Ref.ID = "second"
	results[2].Ref.ID = "third"

	SortResults(results)

	want := []string{"first", "second", "third"}
	got := ids(results)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
