package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// Format identifies a supported import format.
type Format string

const (
	FormatBibTeX Format = "bibtex"
	FormatRIS    Format = "ris"
	FormatNBIB   Format = "nbib"
)

// DetectFormat guesses the import format from a file name.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bib", ".bibtex":
		return FormatBibTeX, nil
	case ".ris":
		return FormatRIS, nil
	case ".nbib", ".txt":
		return FormatNBIB, nil
	}
	return "", fmt.Errorf("cannot determine import format of %s (expected .bib, .ris, or .nbib)", filepath.Base(path))
}

// Parse dispatches to the parser for the given format.
func Parse(format Format, data []byte) ([]reference.Reference, []error) {
	switch format {
	case FormatBibTeX:
		return ParseBibTeX(data)
	case FormatRIS:
		return ParseRIS(data)
	case FormatNBIB:
		return ParseNBIB(data)
	}
	return nil, []error{fmt.Errorf("unsupported format %q", format)}
}
