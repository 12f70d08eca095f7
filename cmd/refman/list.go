package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/search"
)

var (
	listSort   string
	listLimit  int
	listOffset int
)

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", "created", "Sort order: created, updated, published, author, title")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum records to show (0 = all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Skip this many records")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all references",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)

	sortKey, ok := search.ParseSortKey(listSort)
	if !ok {
		exitWithError(ExitError, "invalid sort key %q (valid: %v)", listSort, search.ValidSortKeys)
	}

	page := search.Run(lib.All(), search.Options{
		Sort:   sortKey,
		Limit:  listLimit,
		Offset: listOffset,
	})

	if humanOutput {
		if page.Total == 0 {
			fmt.Println("Library is empty")
			return nil
		}
		fmt.Printf("%d references:\n\n", page.Total)
		for i, res := range page.Results {
			printRefSummary(listOffset+i+1, res.Ref)
		}
	} else {
		outputJSON(page)
	}
	return nil
}
