package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/config"
	"github.com/ncukondo/reference-manager-sub005/internal/pdf"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the fulltext cache from attachments",
	Long: `Rebuild the searchable fulltext cache.

The cache (cache/fulltext.db) holds text extracted from PDF attachments and
is purely derived data: this command clears it and re-extracts every PDF in
every record's attachment directory. Run it after restoring a library from
backup or deleting the cache.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

// IndexResponse reports a cache rebuild.
type IndexResponse struct {
	Status  string `json:"status"`
	Indexed int    `json:"indexed"`
	Skipped int    `json:"skipped"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)

	cache := mustOpenFulltextCache(root)
	defer cache.Close()

	if err := cache.Clear(); err != nil {
		exitWithError(ExitError, "clearing fulltext cache: %v", err)
	}

	indexed, skipped := 0, 0
	attachRoot := config.AttachmentsPath(root)

	for _, ref := range lib.All() {
		dir := filepath.Join(attachRoot, ref.AttachmentDir())
		for _, a := range ref.Custom.Attachments {
			if !strings.EqualFold(filepath.Ext(a.Filename), ".pdf") {
				continue
			}
			path := filepath.Join(dir, a.Filename)
			text, err := pdf.Text(path, 0)
			if err != nil || strings.TrimSpace(text) == "" {
				fmt.Fprintf(os.Stderr, "warning: skipping %s/%s\n", ref.ID, a.Filename)
				skipped++
				continue
			}
			if err := cache.Index(ref.Custom.UUID, a.Filename, text); err != nil {
				exitWithError(ExitError, "indexing %s: %v", a.Filename, err)
			}
			indexed++
		}
	}

	if humanOutput {
		outputHuman("Indexed %d attachments (%d skipped)\n", indexed, skipped)
	} else {
		outputJSON(IndexResponse{Status: "rebuilt", Indexed: indexed, Skipped: skipped})
	}
	return nil
}
