// Package importer parses external bibliographic formats (BibTeX, RIS, NBIB)
// into candidate CSL-JSON records. Candidates go through the library's Add
// operation for duplicate detection and id allocation; the importer itself
// never touches the collection.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// bibtexTypes maps BibTeX entry types to CSL work types.
var bibtexTypes = map[string]string{
	"article":       "article-journal",
	"book":          "book",
	"inbook":        "chapter",
	"incollection":  "chapter",
	"inproceedings": "paper-conference",
	"conference":    "paper-conference",
	"phdthesis":     "thesis",
	"mastersthesis": "thesis",
	"techreport":    "report",
	"misc":          "document",
	"unpublished":   "manuscript",
}

// ParseBibTeX parses a BibTeX file into candidate records. Entries that
// cannot be converted are reported individually so one bad entry does not
// sink the batch.
func ParseBibTeX(data []byte) ([]reference.Reference, []error) {
	var refs []reference.Reference
	var errs []error

	for _, entry := range splitBibTeXEntries(string(data)) {
		ref, err := bibtexEntryToReference(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %q: %w", entry.key, err))
			continue
		}
		refs = append(refs, ref)
	}
	return refs, errs
}

// bibtexEntry is one raw @type{key, ...} block.
type bibtexEntry struct {
	entryType string
	key       string
	fields    map[string]string
}

// splitBibTeXEntries scans the input for entries, tracking brace depth so
// nested braces inside field values do not end an entry early.
func splitBibTeXEntries(src string) []bibtexEntry {
	var entries []bibtexEntry

	i := 0
	for i < len(src) {
		at := strings.IndexByte(src[i:], '@')
		if at < 0 {
			break
		}
		i += at

		open := strings.IndexByte(src[i:], '{')
		if open < 0 {
			break
		}
		entryType := strings.ToLower(strings.TrimSpace(src[i+1 : i+open]))
		body, next := braceSpan(src, i+open)
		i = next

		if entryType == "comment" || entryType == "preamble" || entryType == "string" {
			continue
		}

		key, fields := parseBibTeXBody(body)
		entries = append(entries, bibtexEntry{entryType: entryType, key: key, fields: fields})
	}
	return entries
}

// braceSpan returns the content between the brace at src[start] and its
// matching close, plus the index just past the close.
func braceSpan(src string, start int) (string, int) {
	depth := 0
	for i := start; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[start+1 : i], i + 1
			}
		}
	}
	return src[start+1:], len(src)
}

// parseBibTeXBody splits "key, field = value, ..." into the citation key and
// a lowercase field map.
func parseBibTeXBody(body string) (string, map[string]string) {
	fields := make(map[string]string)

	comma := strings.IndexByte(body, ',')
	if comma < 0 {
		return strings.TrimSpace(body), fields
	}
	key := strings.TrimSpace(body[:comma])
	rest := body[comma+1:]

	for _, part := range splitTopLevel(rest) {
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(part[:eq]))
		value := cleanBibTeXValue(part[eq+1:])
		if name != "" && value != "" {
			fields[name] = value
		}
	}
	return key, fields
}

// splitTopLevel splits on commas outside braces and quotes.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				inQuote = !inQuote
			}
		case ',':
			if depth == 0 && !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if strings.TrimSpace(s[start:]) != "" {
		parts = append(parts, s[start:])
	}
	return parts
}

// cleanBibTeXValue strips the outer delimiter layer and flattens whitespace.
// Inner braces are kept: they still mean something (protected casing,
// corporate author names) and are dropped per-field later.
func cleanBibTeXValue(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '{' && v[len(v)-1] == '}' {
		v = strings.TrimSpace(v[1 : len(v)-1])
	} else if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return strings.Join(strings.Fields(v), " ")
}

// stripBraces removes the brace markup BibTeX uses to protect casing.
func stripBraces(v string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(v)
}

// bibtexEntryToReference converts one parsed entry to a candidate record.
func bibtexEntryToReference(e bibtexEntry) (reference.Reference, error) {
	cslType, ok := bibtexTypes[e.entryType]
	if !ok {
		cslType = "document"
	}

	ref := reference.Reference{
		ID:             e.key,
		Type:           cslType,
		Title:          stripBraces(e.fields["title"]),
		Abstract:       stripBraces(e.fields["abstract"]),
		Publisher:      stripBraces(e.fields["publisher"]),
		Volume:         e.fields["volume"],
		Issue:          e.fields["number"],
		Page:           e.fields["pages"],
		DOI:            e.fields["doi"],
		ISBN:           e.fields["isbn"],
		URL:            e.fields["url"],
		Keyword:        stripBraces(e.fields["keywords"]),
		ContainerTitle: stripBraces(firstOf(e.fields, "journal", "booktitle", "series")),
	}

	if ref.Title == "" {
		return reference.Reference{}, fmt.Errorf("missing title")
	}

	if authors := e.fields["author"]; authors != "" {
		ref.Author = parseBibTeXAuthors(authors)
	}

	if year := e.fields["year"]; year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return reference.Reference{}, fmt.Errorf("invalid year %q", year)
		}
		ref.Issued = reference.YearOf(y)
	}

	return ref, nil
}

// parseBibTeXAuthors splits "Last, First and Last, First" author lists.
// Brace-wrapped names are institutional and kept literal; so are
// single-token names without a comma.
func parseBibTeXAuthors(s string) []reference.Name {
	var names []reference.Name
	for _, part := range strings.Split(s, " and ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			names = append(names, reference.Name{Literal: stripBraces(part)})
			continue
		}
		if comma := strings.IndexByte(part, ','); comma >= 0 {
			names = append(names, reference.Name{
				Family: strings.TrimSpace(part[:comma]),
				Given:  strings.TrimSpace(part[comma+1:]),
			})
			continue
		}
		words := strings.Fields(part)
		if len(words) == 1 {
			names = append(names, reference.Name{Literal: part})
			continue
		}
		names = append(names, reference.Name{
			Family: words[len(words)-1],
			Given:  strings.Join(words[:len(words)-1], " "),
		})
	}
	return names
}

func firstOf(fields map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := fields[k]; v != "" {
			return v
		}
	}
	return ""
}
