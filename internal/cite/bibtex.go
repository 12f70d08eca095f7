package cite

import (
	"fmt"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// cslToBibTeXType maps CSL item types to BibTeX entry types.
var cslToBibTeXType = map[string]string{
	"article-journal":  "article",
	"article-magazine": "article",
	"article":          "article",
	"paper-conference": "inproceedings",
	"book":             "book",
	"chapter":          "incollection",
	"thesis":           "phdthesis",
	"report":           "techreport",
	"webpage":          "misc",
}

// ToBibTeX renders one record as a BibTeX entry keyed by its citation key.
func ToBibTeX(ref reference.Reference) string {
	entryType, ok := cslToBibTeXType[ref.Type]
	if !ok {
		entryType = "misc"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", entryType, ref.ID)

	if len(ref.Author) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", bibtexAuthors(ref.Author))
	}
	fmt.Fprintf(&b, "  title = {%s},\n", escapeLatex(ref.Title))

	if ref.ContainerTitle != "" {
		field := "journal"
		switch entryType {
		case "inproceedings", "incollection":
			field = "booktitle"
		}
		fmt.Fprintf(&b, "  %s = {%s},\n", field, escapeLatex(ref.ContainerTitle))
	}
	if ref.Publisher != "" {
		fmt.Fprintf(&b, "  publisher = {%s},\n", escapeLatex(ref.Publisher))
	}

	if year := ref.Year(); year > 0 {
		fmt.Fprintf(&b, "  year = {%d},\n", year)
	}
	if month := issuedMonth(ref); month > 0 {
		fmt.Fprintf(&b, "  month = {%d},\n", month)
	}

	if ref.Volume != "" {
		fmt.Fprintf(&b, "  volume = {%s},\n", ref.Volume)
	}
	if ref.Issue != "" {
		fmt.Fprintf(&b, "  number = {%s},\n", ref.Issue)
	}
	if ref.Page != "" {
		fmt.Fprintf(&b, "  pages = {%s},\n", strings.ReplaceAll(ref.Page, "-", "--"))
	}
	if ref.DOI != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", ref.DOI)
	}
	if ref.URL != "" {
		fmt.Fprintf(&b, "  url = {%s},\n", ref.URL)
	}
	if ref.Keyword != "" {
		fmt.Fprintf(&b, "  keywords = {%s},\n", escapeLatex(ref.Keyword))
	}
	if ref.Abstract != "" {
		fmt.Fprintf(&b, "  abstract = {%s},\n", escapeLatex(ref.Abstract))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList renders several records separated by blank lines.
func ToBibTeXList(refs []reference.Reference) string {
	entries := make([]string, 0, len(refs))
	for _, ref := range refs {
		entries = append(entries, ToBibTeX(ref))
	}
	return strings.Join(entries, "\n")
}

// bibtexAuthors formats "Last, First and Last, First". Institutional names
// are double-braced so BibTeX treats them as a unit.
func bibtexAuthors(authors []reference.Name) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		switch {
		case a.Literal != "":
			parts = append(parts, "{"+escapeLatex(a.Literal)+"}")
		case a.Given != "":
			parts = append(parts, fmt.Sprintf("%s, %s", escapeLatex(a.Family), escapeLatex(a.Given)))
		default:
			parts = append(parts, escapeLatex(a.Family))
		}
	}
	return strings.Join(parts, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}

// issuedMonth returns the month component of the issued date, 0 if absent.
func issuedMonth(ref reference.Reference) int {
	if ref.Issued == nil || len(ref.Issued.DateParts) == 0 {
		return 0
	}
	parts := ref.Issued.DateParts[0]
	if len(parts) < 2 {
		return 0
	}
	return parts[1]
}
