package search

import (
	"sort"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// SortKey selects the ordering of search results.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortCreated   SortKey = "created"
	SortUpdated   SortKey = "updated"
	SortPublished SortKey = "published"
	SortAuthor    SortKey = "author"
	SortTitle     SortKey = "title"
)

// Options controls one search execution.
type Options struct {
	Query  string
	Sort   SortKey // Defaults to SortRelevance
	Limit  int     // 0 means no limit
	Offset int

	// Fulltext, when set, lets free-text tokens that match no record field
	// fall back to the attachment fulltext cache.
	Fulltext FulltextLookup
}

// Page is one page of search results plus the pre-pagination total.
type Page struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}

// Run executes a search over an in-memory snapshot of the collection.
// An empty or whitespace-only query matches every record.
func Run(refs []reference.Reference, opts Options) Page {
	tokens := Tokenize(opts.Query)

	var results []Result
	if len(tokens) == 0 {
		// Zero tokens means match everything, with no match evidence.
		results = make([]Result, len(refs))
		for i, ref := range refs {
			results[i] = Result{Ref: ref, OverallStrength: StrengthPartial, index: i}
		}
	} else {
		for i, ref := range refs {
			if res := matchReference(ref, tokens, opts.Fulltext); res != nil {
				res.index = i
				results = append(results, *res)
			}
		}
	}

	sortResults(results, opts.Sort)

	total := len(results)
	return Page{Results: paginate(results, opts.Limit, opts.Offset), Total: total}
}

// sortResults applies the requested sort. Relevance uses the full comparator;
// the other keys are simple field comparisons with original order as tie-break.
func sortResults(results []Result, key SortKey) {
	switch key {
	case "", SortRelevance:
		SortResults(results)
	case SortCreated:
		sortBy(results, func(a, b Result) int {
			return strings.Compare(b.Ref.Custom.CreatedAt, a.Ref.Custom.CreatedAt)
		})
	case SortUpdated:
		sortBy(results, func(a, b Result) int {
			return strings.Compare(b.Ref.Custom.Timestamp, a.Ref.Custom.Timestamp)
		})
	case SortPublished:
		sortBy(results, func(a, b Result) int {
			return b.Ref.Year() - a.Ref.Year()
		})
	case SortAuthor:
		sortBy(results, func(a, b Result) int {
			return strings.Compare(
				strings.ToLower(a.Ref.FirstAuthorFamily()),
				strings.ToLower(b.Ref.FirstAuthorFamily()))
		})
	case SortTitle:
		sortBy(results, func(a, b Result) int {
			return strings.Compare(strings.ToLower(a.Ref.Title), strings.ToLower(b.Ref.Title))
		})
	default:
		SortResults(results)
	}
}

func sortBy(results []Result, cmp func(a, b Result) int) {
	sort.Slice(results, func(i, j int) bool {
		if c := cmp(results[i], results[j]); c != 0 {
			return c < 0
		}
		return results[i].index < results[j].index
	})
}

func paginate(results []Result, limit, offset int) []Result {
	// Defensive defaults: out-of-range paging is clamped, never a panic.
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return []Result{}
	}
	results = results[offset:]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

// ValidSortKeys lists the accepted --sort values for CLI help and validation.
var ValidSortKeys = []SortKey{SortRelevance, SortCreated, SortUpdated, SortPublished, SortAuthor, SortTitle}

// ParseSortKey validates a sort key string, defaulting empty to relevance.
func ParseSortKey(s string) (SortKey, bool) {
	if s == "" {
		return SortRelevance, true
	}
	for _, k := range ValidSortKeys {
		if SortKey(s) == k {
			return k, true
		}
	}
	return "", false
}
