package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/cite"
	"github.com/ncukondo/reference-manager-sub005/internal/config"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

var citeStyle string

func init() {
	citeCmd.Flags().StringVar(&citeStyle, "style", "", "Citation style: apa, vancouver, bibtex (default from config)")
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite <id>...",
	Short: "Render citations",
	Long: `Render one or more references as formatted citations.

Styles: apa, vancouver (plain text) and bibtex (export entries). The default
style comes from the library's library.json, then the global config, then apa.

Examples:
  refman cite smith-2020
  refman cite smith-2020 doe-2021 --style vancouver
  refman cite smith-2020 --style bibtex > refs.bib`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCite,
}

// Citation pairs an id with its rendered form for JSON output.
type Citation struct {
	ID       string `json:"id"`
	Style    string `json:"style"`
	Citation string `json:"citation"`
}

func runCite(cmd *cobra.Command, args []string) error {
	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)

	style := citeStyle
	if style == "" {
		style = config.StyleFor(root)
	}

	refs := make([]reference.Reference, 0, len(args))
	for _, id := range args {
		ref, ok := lib.Get(id)
		if !ok {
			exitWithError(ExitNotFound, "reference not found: %s", id)
		}
		refs = append(refs, ref)
	}

	if style == cite.StyleBibTeX {
		// BibTeX output is a document, not a list of lines.
		fmt.Print(cite.ToBibTeXList(refs))
		return nil
	}

	rendered, err := cite.RenderList(refs, style)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		for _, line := range rendered {
			fmt.Println(line)
		}
	} else {
		out := make([]Citation, len(rendered))
		for i, line := range rendered {
			out[i] = Citation{ID: refs[i].ID, Style: style, Citation: line}
		}
		outputJSON(out)
	}
	return nil
}
