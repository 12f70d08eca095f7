package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/attach"
	"github.com/ncukondo/reference-manager-sub005/internal/config"
	"github.com/ncukondo/reference-manager-sub005/internal/pdf"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

var attachRole string

func init() {
	attachCmd.Flags().StringVar(&attachRole, "role", "fulltext", "Attachment role: fulltext or supplement")
	rootCmd.AddCommand(attachCmd)
}

var attachCmd = &cobra.Command{
	Use:   "attach <id> <file>",
	Short: "Attach a file to a reference",
	Long: `Copy a file into the reference's attachment directory.

The directory is named from the citation key plus a uuid prefix, so it
survives renames. PDF attachments are scanned for a DOI; a DOI that differs
from the record's is reported as a warning. Fulltext-role PDFs are indexed
into the searchable fulltext cache.

Examples:
  refman attach smith-2020 ~/Downloads/smith2020.pdf
  refman attach smith-2020 data.csv --role supplement`,
	Args: cobra.ExactArgs(2),
	RunE: runAttach,
}

func runAttach(cmd *cobra.Command, args []string) error {
	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)
	id, file := args[0], args[1]

	if _, ok := lib.Get(id); !ok {
		exitWithError(ExitNotFound, "reference not found: %s", id)
	}

	var result attach.Result
	updated, err := lib.Update(id, func(ref *reference.Reference) error {
		res, err := attach.File(config.AttachmentsPath(root), ref, file, attachRole)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		exitWithError(ExitError, "attaching %s: %v", file, err)
	}

	if result.DOIMismatch {
		fmt.Fprintf(os.Stderr, "warning: PDF contains DOI %s but record %s has DOI %s\n",
			result.SniffedDOI, updated.ID, updated.DOI)
	}

	if strings.EqualFold(filepath.Ext(result.Filename), ".pdf") {
		indexAttachmentText(root, updated.Custom.UUID, result.StoredPath, result.Filename)
	}

	if humanOutput {
		outputHuman("Attached %s to %s (%s)\n", result.Filename, updated.ID, result.Role)
	} else {
		outputJSON(result)
	}
	return nil
}

// indexAttachmentText extracts a PDF's text into the fulltext cache. Failures
// are warnings; the attachment itself already succeeded.
func indexAttachmentText(root, uuid, path, filename string) {
	text, err := pdf.Text(path, 0)
	if err != nil || strings.TrimSpace(text) == "" {
		return
	}

	cache := mustOpenFulltextCache(root)
	defer cache.Close()
	if err := cache.Index(uuid, filename, text); err != nil {
		fmt.Fprintf(os.Stderr, "warning: indexing %s: %v\n", filename, err)
	}
}
