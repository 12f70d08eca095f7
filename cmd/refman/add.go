package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/config"
	"github.com/ncukondo/reference-manager-sub005/internal/fetch"
	"github.com/ncukondo/reference-manager-sub005/internal/importer"
	"github.com/ncukondo/reference-manager-sub005/internal/library"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

var (
	addDOIs  []string
	addPMIDs []string
	addForce bool
)

func init() {
	addCmd.Flags().StringArrayVar(&addDOIs, "doi", nil, "Fetch metadata by DOI (can be repeated)")
	addCmd.Flags().StringArrayVar(&addPMIDs, "pmid", nil, "Fetch metadata by PubMed ID (can be repeated)")
	addCmd.Flags().BoolVar(&addForce, "force", false, "Skip duplicate detection (collision-safe key allocation still applies)")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add [files...]",
	Short: "Add references from files or by identifier",
	Long: `Add references to the library.

Input files are parsed by extension: .bib/.bibtex (BibTeX), .ris (RIS),
.nbib/.txt (PubMed NBIB). Identifiers are fetched from doi.org and NCBI.

Candidates are checked against the library for duplicates (shared DOI, PMID,
PMCID, or ISBN; otherwise matching title, first author, and year). Duplicates
are reported, not added. Each added record gets a citation key like
smith-2020, with a, b, ... suffixes on collision.

Examples:
  refman add papers.bib
  refman add export.ris pubmed.nbib
  refman add --doi 10.1038/s41586-020-2649-2
  refman add --pmid 33432212 --pmid 32887691
  refman add papers.bib --force`,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && len(addDOIs) == 0 && len(addPMIDs) == 0 {
		exitWithError(ExitError, "nothing to add: pass files or --doi/--pmid")
	}

	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)

	var candidates []reference.Reference
	var parseErrors []string

	for _, path := range args {
		refs, errs := parseFile(path)
		candidates = append(candidates, refs...)
		for _, err := range errs {
			parseErrors = append(parseErrors, fmt.Sprintf("%s: %v", path, err))
		}
	}

	if len(addDOIs) > 0 || len(addPMIDs) > 0 {
		ctx := context.Background()
		client := fetch.NewClient(
			fetch.WithNCBIAPIKey(config.GetNCBIAPIKey()),
			fetch.WithCache(fetch.NewMemoryCache()),
		)
		for _, doi := range addDOIs {
			ref, err := client.ByDOI(ctx, doi)
			if err != nil {
				parseErrors = append(parseErrors, err.Error())
				continue
			}
			candidates = append(candidates, ref)
		}
		for _, pmid := range addPMIDs {
			ref, err := client.ByPMID(ctx, pmid)
			if err != nil {
				parseErrors = append(parseErrors, err.Error())
				continue
			}
			candidates = append(candidates, ref)
		}
	}

	if len(candidates) == 0 {
		for _, msg := range parseErrors {
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
		}
		exitWithError(ExitDataError, "no usable records found in input")
	}

	outcome, err := lib.Add(candidates, addForce)
	if err != nil {
		exitWithError(ExitError, "adding references: %v", err)
	}

	for _, msg := range parseErrors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
	}

	if humanOutput {
		printAddOutcome(outcome)
	} else {
		outputJSON(outcome)
	}
	return nil
}

func parseFile(path string) ([]reference.Reference, []error) {
	format, err := importer.DetectFormat(path)
	if err != nil {
		return nil, []error{err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{err}
	}
	return importer.Parse(format, data)
}

func printAddOutcome(outcome library.AddOutcome) {
	for _, a := range outcome.Added {
		if a.Renamed {
			outputHuman("Added %s (key %s was taken)\n", a.Ref.ID, a.OriginalID)
		} else {
			outputHuman("Added %s\n", a.Ref.ID)
		}
		outputHuman("    %s\n", truncateString(a.Ref.Title, SearchTitleMaxLen))
	}
	for _, s := range outcome.Skipped {
		outputHuman("Skipped duplicate of %s (%s)\n", s.ExistingID, s.Reason)
		outputHuman("    %s\n", truncateString(s.Candidate.Title, SearchTitleMaxLen))
	}
	for _, f := range outcome.Failed {
		outputHuman("Failed: %s (%s)\n", truncateString(f.Candidate.Title, SearchTitleMaxLen), f.Err)
	}
	outputHuman("\n%d added, %d skipped, %d failed\n",
		len(outcome.Added), len(outcome.Skipped), len(outcome.Failed))
}
