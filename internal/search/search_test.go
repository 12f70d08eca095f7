package search

import (
	"testing"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

func testCollection() []reference.Reference {
	return []reference.Reference{
		{
			ID:     "smith-2023",
			Title:  "Machine Learning in Medicine",
			Author: []reference.Name{{Family: "Smith"}},
			Issued: reference.YearOf(2023),
			Custom: reference.Custom{CreatedAt: "2024-01-01T00:00:00Z", Timestamp: "2024-03-01T00:00:00Z"},
		},
		{
			ID:     "doe-2024",
			Title:  "Deep Learning",
			Author: []reference.Name{{Family: "Doe"}},
			Issued: reference.YearOf(2024),
			Custom: reference.Custom{CreatedAt: "2024-02-01T00:00:00Z", Timestamp: "2024-02-15T00:00:00Z"},
		},
		{
			ID:     "who-2020",
			Title:  "Global Health Report",
			Author: []reference.Name{{Literal: "World Health Organization"}},
			Issued: reference.YearOf(2020),
			Custom: reference.Custom{CreatedAt: "2024-03-01T00:00:00Z", Timestamp: "2024-03-02T00:00:00Z"},
		},
	}
}

func TestRunEmptyQueryMatchesEverything(t *testing.T) {
	page := Run(testCollection(), Options{Query: "   "})
	if page.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Total)
	}
	if len(page.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(page.Results))
	}
}

func TestRunLearningQuery(t *testing.T) {
	// Both "Learning" titles match with partial strength; doe-2024 sorts
	// first because 2024 > 2023.
	page := Run(testCollection(), Options{Query: "Learning"})
	if page.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Total)
	}
	if page.Results[0].Ref.ID != "doe-2024" || page.Results[1].Ref.ID != "smith-2023" {
		t.Errorf("order = [%s, %s], want [doe-2024, smith-2023]",
			page.Results[0].Ref.ID, page.Results[1].Ref.ID)
	}
	for _, r := range page.Results {
		if r.OverallStrength != StrengthPartial {
			t.Errorf("%s strength = %s, want partial", r.Ref.ID, r.OverallStrength)
		}
	}
}

func TestRunPagination(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		offset    int
		wantIDs   []string
		wantTotal int
	}{
		{"first page", 2, 0, []string{"doe-2024", "smith-2023"}, 3},
		{"second page", 2, 2, []string{"who-2020"}, 3},
		{"offset beyond end", 2, 10, []string{}, 3},
		{"negative offset clamps to start", 2, -1, []string{"doe-2024", "smith-2023"}, 3},
		{"negative limit means no limit", -5, 0, []string{"doe-2024", "smith-2023", "who-2020"}, 3},
		{"no limit", 0, 0, []string{"doe-2024", "smith-2023", "who-2020"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Run(testCollection(), Options{Limit: tt.limit, Offset: tt.offset})
			if page.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", page.Total, tt.wantTotal)
			}
			if len(page.Results) != len(tt.wantIDs) {
				t.Fatalf("got %d results, want %d", len(page.Results), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if page.Results[i].Ref.ID != id {
					t.Errorf("result %d = %s, want %s", i, page.Results[i].Ref.ID, id)
				}
			}
		})
	}
}

func TestRunFieldSorts(t *testing.T) {
	tests := []struct {
		name    string
		sort    SortKey
		wantIDs []string
	}{
		{"created newest first", SortCreated, []string{"who-2020", "doe-2024", "smith-2023"}},
		{"updated newest first", SortUpdated, []string{"who-2020", "smith-2023", "doe-2024"}},
		{"published newest first", SortPublished, []string{"doe-2024", "smith-2023", "who-2020"}},
		{"author ascending", SortAuthor, []string{"doe-2024", "smith-2023", "who-2020"}},
		{"title ascending", SortTitle, []string{"doe-2024", "who-2020", "smith-2023"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Run(testCollection(), Options{Sort: tt.sort})
			for i, id := range tt.wantIDs {
				if page.Results[i].Ref.ID != id {
					t.Fatalf("sort %s order = %v, want %v at %d",
						tt.sort, resultIDs(page.Results), tt.wantIDs, i)
				}
			}
		})
	}
}

func resultIDs(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Ref.ID
	}
	return out
}

func TestParseSortKey(t *testing.T) {
	if k, ok := ParseSortKey(""); !ok || k != SortRelevance {
		t.Errorf("empty sort = %s/%v, want relevance/true", k, ok)
	}
	if _, ok := ParseSortKey("bogus"); ok {
		t.Error("bogus sort key accepted")
	}
	if k, ok := ParseSortKey("published"); !ok || k != SortPublished {
		t.Errorf("published sort = %s/%v", k, ok)
	}
}
