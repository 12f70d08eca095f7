// Package main provides the refman CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/config"
	"github.com/ncukondo/reference-manager-sub005/internal/fulltext"
	"github.com/ncukondo/reference-manager-sub005/internal/library"
	"github.com/ncukondo/reference-manager-sub005/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// libraryFlag overrides library discovery for one invocation
var libraryFlag string

func main() {
	config.LoadEnv()
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refman",
	Short: "Personal bibliographic reference manager",
	Long: `refman manages a personal library of bibliographic references.

Core features:
  - CSL-JSON records in a plain JSON file, one library per directory
  - Field-aware search (author:, title:, year:, doi:, ...) with quoted phrases
  - Import from BibTeX, RIS, and PubMed NBIB files
  - Metadata fetch by DOI (doi.org) or PMID (NCBI)
  - Attachments with PDF DOI sniffing and a rebuildable fulltext cache
  - Citation rendering (APA, Vancouver) and BibTeX export
  - Optional local HTTP API

All commands output JSON by default for scripting; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&libraryFlag, "library", "", "Library directory (overrides config and discovery)")
	rootCmd.Version = Version
}

// mustResolveLibrary locates the library root, exits with a helpful message
// when none is found.
func mustResolveLibrary() string {
	root, err := config.ResolveLibrary(libraryFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitConfigError)
	}
	return root
}

// mustOpenLibrary opens the collection at the given root, exits on error.
func mustOpenLibrary(root string) *library.Library {
	store := storage.NewFileStore(config.ReferencesPath(root))
	lib, err := library.Open(store)
	if err != nil {
		exitWithError(ExitDataError, "loading library: %v", err)
	}
	return lib
}

// openFulltextCache opens the fulltext cache if it exists. Returns nil when
// absent; search then simply skips the fulltext fallback.
func openFulltextCache(root string) *fulltext.Store {
	path := config.FulltextDBPath(root)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	store, err := fulltext.Open(path)
	if err != nil {
		return nil
	}
	return store
}

// mustOpenFulltextCache opens (creating if needed) the fulltext cache,
// exits on error. For commands that write to the cache.
func mustOpenFulltextCache(root string) *fulltext.Store {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	store, err := fulltext.Open(config.FulltextDBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening fulltext cache: %v", err)
	}
	return store
}
