package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one reference by citation key or uuid",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)

	ref, ok := lib.Get(args[0])
	if !ok {
		exitWithError(ExitNotFound, "reference not found: %s", args[0])
	}

	if humanOutput {
		outputHuman("%s\n", ref.ID)
		outputHuman("  Title: %s\n", ref.Title)
		if len(ref.Author) > 0 {
			outputHuman("  Authors: %s\n", formatAuthorsShort(ref.Author, 10))
		}
		if ref.ContainerTitle != "" {
			outputHuman("  In: %s\n", ref.ContainerTitle)
		}
		if ref.Year() > 0 {
			outputHuman("  Year: %d\n", ref.Year())
		}
		if ref.DOI != "" {
			outputHuman("  DOI: %s\n", ref.DOI)
		}
		if ref.PMID != "" {
			outputHuman("  PMID: %s\n", ref.PMID)
		}
		for _, a := range ref.Custom.Attachments {
			outputHuman("  Attachment: %s (%s)\n", a.Filename, a.Role)
		}
	} else {
		outputJSON(ref)
	}
	return nil
}
