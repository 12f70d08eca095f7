package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/attach"
	"github.com/ncukondo/reference-manager-sub005/internal/config"
	"github.com/ncukondo/reference-manager-sub005/internal/library"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

var (
	updateSets   []string
	updateRename string
)

func init() {
	updateCmd.Flags().StringArrayVar(&updateSets, "set", nil, "Set a field, e.g. --set title=... (can be repeated)")
	updateCmd.Flags().StringVar(&updateRename, "rename", "", "Change the citation key (collision-checked)")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a reference",
	Long: `Edit fields of a reference, or rename its citation key.

Settable fields: title, container-title, publisher, abstract, volume, issue,
page, doi, pmid, pmcid, isbn, url, keyword, year, type. An empty value clears
the field. The record's uuid and creation time never change; its timestamp is
refreshed.

Renaming also moves the record's attachment directory.

Examples:
  refman update smith-2020 --set title="Corrected title" --set year=2021
  refman update smith-2020 --rename smith-rnaseq`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if len(updateSets) == 0 && updateRename == "" {
		exitWithError(ExitError, "nothing to do: pass --set or --rename")
	}

	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)
	id := args[0]

	ref, ok := lib.Get(id)
	if !ok {
		exitWithError(ExitNotFound, "reference not found: %s", id)
	}

	if len(updateSets) > 0 {
		updated, err := lib.Update(id, func(ref *reference.Reference) error {
			for _, kv := range updateSets {
				if err := applyField(ref, kv); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			exitWithError(ExitDataError, "updating %s: %v", id, err)
		}
		ref = updated
	}

	if updateRename != "" {
		oldDir := ref.AttachmentDir()
		renamed, err := lib.Rename(ref.ID, updateRename)
		if err != nil {
			if errors.Is(err, library.ErrIDTaken) {
				exitWithError(ExitDataError, "%v", err)
			}
			exitWithError(ExitError, "renaming %s: %v", ref.ID, err)
		}
		if err := attach.RenameDir(config.AttachmentsPath(root), oldDir, renamed.AttachmentDir()); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		ref = renamed
	}

	if humanOutput {
		outputHuman("Updated %s\n", ref.ID)
	} else {
		outputJSON(ref)
	}
	return nil
}

// applyField applies one --set key=value pair to a record.
func applyField(ref *reference.Reference, kv string) error {
	key, value, found := strings.Cut(kv, "=")
	if !found {
		return fmt.Errorf("malformed --set %q (expected field=value)", kv)
	}

	switch key {
	case "title":
		ref.Title = value
	case "container-title":
		ref.ContainerTitle = value
	case "publisher":
		ref.Publisher = value
	case "abstract":
		ref.Abstract = value
	case "volume":
		ref.Volume = value
	case "issue":
		ref.Issue = value
	case "page":
		ref.Page = value
	case "doi":
		ref.DOI = value
	case "pmid":
		ref.PMID = value
	case "pmcid":
		ref.PMCID = value
	case "isbn":
		ref.ISBN = value
	case "url":
		ref.URL = value
	case "keyword":
		ref.Keyword = value
	case "type":
		if value == "" {
			return fmt.Errorf("type cannot be empty")
		}
		ref.Type = value
	case "year":
		if value == "" {
			ref.Issued = nil
			return nil
		}
		year, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid year %q", value)
		}
		ref.Issued = reference.YearOf(year)
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	return nil
}
