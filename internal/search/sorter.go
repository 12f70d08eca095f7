package search

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortResults orders results by the relevance comparator:
//
//  1. Match strength, exact before partial.
//  2. Year, descending; records without a year (year 0) sort last.
//  3. First author family name, ascending, case-insensitive, locale-aware;
//     records without an author sort after records with one.
//  4. Title, ascending, case-insensitive; missing titles sort last.
//  5. Original position in the input collection.
//
// Criterion 5 makes the order fully deterministic: two records identical on
// 1-4 keep their original relative order.
func SortResults(results []Result) {
	col := collate.New(language.Und, collate.IgnoreCase)

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]

		if a.OverallStrength != b.OverallStrength {
			return a.OverallStrength == StrengthExact
		}

		ay, by := a.Ref.Year(), b.Ref.Year()
		if ay != by {
			return ay > by
		}

		af, bf := a.Ref.FirstAuthorFamily(), b.Ref.FirstAuthorFamily()
		if (af == "") != (bf == "") {
			return af != ""
		}
		if af != bf {
			if c := col.CompareString(af, bf); c != 0 {
				return c < 0
			}
		}

		at, bt := a.Ref.Title, b.Ref.Title
		if (at == "") != (bt == "") {
			return at != ""
		}
		alt, blt := strings.ToLower(at), strings.ToLower(bt)
		if alt != blt {
			return alt < blt
		}

		return a.index < b.index
	})
}
