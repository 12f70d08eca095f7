// Package cite renders stored records as formatted citations. Two simple
// built-in text styles are supported plus BibTeX export; full CSL style-file
// processing is out of scope.
package cite

import (
	"fmt"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// Style names accepted by Render.
const (
	StyleAPA       = "apa"
	StyleVancouver = "vancouver"
	StyleBibTeX    = "bibtex"
)

// Styles lists the supported styles in help-text order.
var Styles = []string{StyleAPA, StyleVancouver, StyleBibTeX}

// Render formats one record in the named style.
func Render(ref reference.Reference, style string) (string, error) {
	switch style {
	case StyleAPA:
		return renderAPA(ref), nil
	case StyleVancouver:
		return renderVancouver(ref), nil
	case StyleBibTeX:
		return ToBibTeX(ref), nil
	default:
		return "", fmt.Errorf("unknown citation style %q (valid: %s)",
			style, strings.Join(Styles, ", "))
	}
}

// RenderList formats several records, one citation per element.
func RenderList(refs []reference.Reference, style string) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		s, err := Render(ref, style)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// renderAPA produces "Family, G., & Family, G. (2023). Title. Container,
// 12(3), 45-67. https://doi.org/...".
func renderAPA(ref reference.Reference) string {
	var b strings.Builder

	if authors := apaAuthors(ref.Author); authors != "" {
		b.WriteString(authors)
		b.WriteString(" ")
	}

	if year := ref.Year(); year > 0 {
		fmt.Fprintf(&b, "(%d). ", year)
	} else {
		b.WriteString("(n.d.). ")
	}

	b.WriteString(withPeriod(ref.Title))

	if ref.ContainerTitle != "" {
		b.WriteString(" ")
		b.WriteString(ref.ContainerTitle)
		if ref.Volume != "" {
			b.WriteString(", ")
			b.WriteString(ref.Volume)
			if ref.Issue != "" {
				fmt.Fprintf(&b, "(%s)", ref.Issue)
			}
		}
		if ref.Page != "" {
			b.WriteString(", ")
			b.WriteString(ref.Page)
		}
		b.WriteString(".")
	} else if ref.Publisher != "" {
		b.WriteString(" ")
		b.WriteString(withPeriod(ref.Publisher))
	}

	if ref.DOI != "" {
		b.WriteString(" https://doi.org/")
		b.WriteString(ref.DOI)
	}
	return b.String()
}

// renderVancouver produces "Family GI, Family GI. Title. Container.
// 2023;12(3):45-67.".
func renderVancouver(ref reference.Reference) string {
	var b strings.Builder

	if authors := vancouverAuthors(ref.Author); authors != "" {
		b.WriteString(authors)
		b.WriteString(". ")
	}

	b.WriteString(withPeriod(ref.Title))

	if ref.ContainerTitle != "" {
		b.WriteString(" ")
		b.WriteString(withPeriod(ref.ContainerTitle))
	}

	var tail strings.Builder
	if year := ref.Year(); year > 0 {
		fmt.Fprintf(&tail, "%d", year)
	}
	if ref.Volume != "" {
		tail.WriteString(";")
		tail.WriteString(ref.Volume)
		if ref.Issue != "" {
			fmt.Fprintf(&tail, "(%s)", ref.Issue)
		}
	}
	if ref.Page != "" {
		tail.WriteString(":")
		tail.WriteString(ref.Page)
	}
	if tail.Len() > 0 {
		b.WriteString(" ")
		b.WriteString(tail.String())
		b.WriteString(".")
	}

	if ref.DOI != "" {
		b.WriteString(" doi:")
		b.WriteString(ref.DOI)
	}
	return b.String()
}

// apaAuthors formats "Smith, J., & Doe, A." with an ampersand before the
// final author. Literal names pass through unchanged.
func apaAuthors(authors []reference.Name) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.Literal != "" {
			parts = append(parts, a.Literal)
			continue
		}
		s := a.Family
		if ini := initials(a.Given, ". "); ini != "" {
			s += ", " + ini + "."
		}
		parts = append(parts, s)
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", & " + parts[len(parts)-1]
	}
}

// vancouverAuthors formats "Smith JA, Doe B".
func vancouverAuthors(authors []reference.Name) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.Literal != "" {
			parts = append(parts, a.Literal)
			continue
		}
		s := a.Family
		if ini := initials(a.Given, ""); ini != "" {
			s += " " + ini
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

// initials reduces a given name to its initials, joined by sep.
func initials(given, sep string) string {
	words := strings.Fields(given)
	letters := make([]string, 0, len(words))
	for _, w := range words {
		letters = append(letters, string([]rune(w)[:1]))
	}
	return strings.Join(letters, sep)
}

func withPeriod(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!") {
		return s
	}
	return s + "."
}
