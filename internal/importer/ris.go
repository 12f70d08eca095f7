package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// risTypes maps RIS TY values to CSL work types.
var risTypes = map[string]string{
	"JOUR": "article-journal",
	"BOOK": "book",
	"CHAP": "chapter",
	"CONF": "paper-conference",
	"CPAPER": "paper-conference",
	"THES": "thesis",
	"RPRT": "report",
	"ELEC": "webpage",
	"GEN":  "document",
}

// ParseRIS parses a RIS export. Records are delimited by TY/ER tag pairs;
// tags are "XX  - value" lines.
func ParseRIS(data []byte) ([]reference.Reference, []error) {
	var refs []reference.Reference
	var errs []error

	var tags map[string][]string
	recordNum := 0

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		tag, value, ok := risTag(line)
		if !ok {
			continue
		}

		switch tag {
		case "TY":
			recordNum++
			tags = map[string][]string{"TY": {value}}
		case "ER":
			if tags == nil {
				continue
			}
			ref, err := risRecordToReference(tags)
			if err != nil {
				errs = append(errs, fmt.Errorf("record %d: %w", recordNum, err))
			} else {
				refs = append(refs, ref)
			}
			tags = nil
		default:
			if tags != nil {
				tags[tag] = append(tags[tag], value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("reading RIS input: %w", err))
	}
	return refs, errs
}

// risTag splits an "XX  - value" line. The separator is two spaces, a
// hyphen, and a space, with the value possibly empty.
func risTag(line string) (string, string, bool) {
	if len(line) < 5 || line[2:5] != "  -" {
		return "", "", false
	}
	tag := line[:2]
	if tag != strings.ToUpper(tag) {
		return "", "", false
	}
	value := ""
	if len(line) > 6 {
		value = strings.TrimSpace(line[6:])
	}
	return tag, value, true
}

// risRecordToReference converts one tag map to a candidate record.
func risRecordToReference(tags map[string][]string) (reference.Reference, error) {
	first := func(keys ...string) string {
		for _, k := range keys {
			if vs := tags[k]; len(vs) > 0 && vs[0] != "" {
				return vs[0]
			}
		}
		return ""
	}

	cslType, ok := risTypes[first("TY")]
	if !ok {
		cslType = "document"
	}

	ref := reference.Reference{
		Type:           cslType,
		Title:          first("TI", "T1"),
		ContainerTitle: first("JO", "JF", "T2"),
		Publisher:      first("PB"),
		Abstract:       first("AB", "N2"),
		Volume:         first("VL"),
		Issue:          first("IS"),
		DOI:            first("DO"),
		ISBN:           first("SN"),
		URL:            first("UR"),
	}

	if ref.Title == "" {
		return reference.Reference{}, fmt.Errorf("missing title (TI)")
	}

	if sp, ep := first("SP"), first("EP"); sp != "" {
		ref.Page = sp
		if ep != "" {
			ref.Page = sp + "-" + ep
		}
	}

	for _, au := range append(tags["AU"], tags["A1"]...) {
		ref.Author = append(ref.Author, risAuthor(au))
	}

	if kws := tags["KW"]; len(kws) > 0 {
		ref.Keyword = strings.Join(kws, ", ")
	}

	if date := first("PY", "Y1", "DA"); date != "" {
		if parts := risDateParts(date); parts != nil {
			ref.Issued = &reference.Date{DateParts: [][]int{parts}}
		}
	}

	return ref, nil
}

// risAuthor parses "Family, Given" names; names without a comma are kept as
// literal names.
func risAuthor(s string) reference.Name {
	if comma := strings.IndexByte(s, ','); comma >= 0 {
		return reference.Name{
			Family: strings.TrimSpace(s[:comma]),
			Given:  strings.TrimSpace(s[comma+1:]),
		}
	}
	return reference.Name{Literal: strings.TrimSpace(s)}
}

// risDateParts parses "YYYY" or "YYYY/MM/DD" (trailing parts optional).
func risDateParts(s string) []int {
	var parts []int
	for i, seg := range strings.SplitN(s, "/", 4) {
		if i == 3 {
			break // Anything after the day is free text
		}
		n, err := strconv.Atoi(strings.TrimSpace(seg))
		if err != nil || n == 0 {
			break
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return nil
	}
	return parts
}
