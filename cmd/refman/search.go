package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/search"
)

var (
	searchSort     string
	searchLimit    int
	searchOffset   int
	searchFulltext bool
)

func init() {
	searchCmd.Flags().StringVar(&searchSort, "sort", "relevance", "Sort order: relevance, created, updated, published, author, title")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results to return (0 = all)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Skip this many results")
	searchCmd.Flags().BoolVar(&searchFulltext, "fulltext", false, "Also match free-text terms against attachment fulltext")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search references",
	Long: `Search references with field-aware query syntax.

Query syntax:
  Plain text       - Searches title, author, keywords, abstract, and more
  "quoted phrase"  - Matched as one unit, spaces included
  author:smith     - Restrict a term to one field
  year:2024        - Exact year
  doi:10.1/x       - Exact identifier match (case-sensitive)

Field prefixes: author, title, year, doi, pmid, pmcid, isbn, url, keyword,
tag, id. An unknown prefix is searched as literal text. All terms must match
(AND); an all-uppercase term like "AI" is matched case-sensitively so it
doesn't hit unrelated words.

An empty query lists every record. Exact matches sort before partial ones,
then newer publication years first.

Examples:
  refman search "machine learning"
  refman search author:smith year:2023
  refman search title:"deep learning" --sort published
  refman search transformer --fulltext --limit 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)

	sortKey, ok := search.ParseSortKey(searchSort)
	if !ok {
		exitWithError(ExitError, "invalid sort key %q (valid: %v)", searchSort, search.ValidSortKeys)
	}

	opts := search.Options{
		Sort:   sortKey,
		Limit:  searchLimit,
		Offset: searchOffset,
	}
	if len(args) > 0 {
		opts.Query = args[0]
	}

	if searchFulltext {
		if cache := openFulltextCache(root); cache != nil {
			defer cache.Close()
			opts.Fulltext = cache.Lookup
		}
	}

	page := search.Run(lib.All(), opts)

	if humanOutput {
		if len(page.Results) == 0 {
			fmt.Println("No references found")
		} else {
			fmt.Printf("Found %d references:\n\n", page.Total)
			for i, res := range page.Results {
				printRefSummary(searchOffset+i+1, res.Ref)
			}
		}
	} else {
		outputJSON(page)
	}
	return nil
}
