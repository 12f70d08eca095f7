package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/attach"
	"github.com/ncukondo/reference-manager-sub005/internal/config"
	"github.com/ncukondo/reference-manager-sub005/internal/library"
)

var removeKeepFiles bool

func init() {
	removeCmd.Flags().BoolVar(&removeKeepFiles, "keep-files", false, "Leave the attachment directory in place")
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a reference",
	Long: `Delete a reference from the library.

The record's attachment directory and cached fulltext are removed too,
unless --keep-files is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)

	removed, err := lib.Remove(args[0])
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			exitWithError(ExitNotFound, "%v", err)
		}
		exitWithError(ExitError, "removing %s: %v", args[0], err)
	}

	if !removeKeepFiles {
		if err := attach.RemoveDir(config.AttachmentsPath(root), removed); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if cache := openFulltextCache(root); cache != nil {
			// Best effort: the cache is derived data and can be rebuilt.
			_ = cache.Remove(removed.Custom.UUID)
			cache.Close()
		}
	}

	if humanOutput {
		outputHuman("Removed %s\n    %s\n", removed.ID, truncateString(removed.Title, SearchTitleMaxLen))
	} else {
		outputJSON(removed)
	}
	return nil
}
