package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// monthNumbers translates the month abbreviations PubMed uses in DP fields.
var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ParseNBIB parses PubMed NBIB (MEDLINE) format. Tags are "XXXX- value"
// with continuation lines indented by six spaces; records are separated by
// blank lines.
func ParseNBIB(data []byte) ([]reference.Reference, []error) {
	var refs []reference.Reference
	var errs []error

	for i, record := range splitNBIBRecords(data) {
		ref, err := nbibRecordToReference(record)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i+1, err))
			continue
		}
		refs = append(refs, ref)
	}
	return refs, errs
}

// splitNBIBRecords groups tag lines into records, merging continuations.
func splitNBIBRecords(data []byte) []map[string][]string {
	var records []map[string][]string
	var current map[string][]string
	var lastTag string

	flush := func() {
		if len(current) > 0 {
			records = append(records, current)
		}
		current = nil
		lastTag = ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case strings.HasPrefix(line, "      ") && lastTag != "":
			// Continuation of the previous tag's value.
			vs := current[lastTag]
			vs[len(vs)-1] += " " + strings.TrimSpace(line)
		case len(line) > 5 && line[4] == '-':
			tag := strings.TrimSpace(line[:4])
			value := strings.TrimSpace(line[5:])
			if current == nil {
				current = make(map[string][]string)
			}
			current[tag] = append(current[tag], value)
			lastTag = tag
		}
	}
	flush()
	return records
}

// nbibRecordToReference converts one NBIB record to a candidate. PubMed
// exports are always journal articles.
func nbibRecordToReference(tags map[string][]string) (reference.Reference, error) {
	first := func(keys ...string) string {
		for _, k := range keys {
			if vs := tags[k]; len(vs) > 0 && vs[0] != "" {
				return vs[0]
			}
		}
		return ""
	}

	ref := reference.Reference{
		Type:           "article-journal",
		Title:          strings.TrimSuffix(first("TI"), "."),
		ContainerTitle: first("JT", "TA"),
		Abstract:       first("AB"),
		Volume:         first("VI"),
		Issue:          first("IP"),
		Page:           first("PG"),
		PMID:           first("PMID"),
		PMCID:          first("PMC"),
	}

	if ref.Title == "" {
		return reference.Reference{}, fmt.Errorf("missing title (TI)")
	}

	// Prefer full author names (FAU "Family, Given") over abbreviated AU.
	for _, fau := range tags["FAU"] {
		ref.Author = append(ref.Author, risAuthor(fau))
	}
	if len(ref.Author) == 0 {
		for _, au := range tags["AU"] {
			ref.Author = append(ref.Author, nbibShortAuthor(au))
		}
	}

	// AID carries DOIs as "10.xxxx/yyy [doi]".
	for _, aid := range tags["AID"] {
		if strings.HasSuffix(aid, "[doi]") {
			ref.DOI = strings.TrimSpace(strings.TrimSuffix(aid, "[doi]"))
			break
		}
	}
	if ref.DOI == "" {
		if lid := first("LID"); strings.HasSuffix(lid, "[doi]") {
			ref.DOI = strings.TrimSpace(strings.TrimSuffix(lid, "[doi]"))
		}
	}

	if mhs := tags["MH"]; len(mhs) > 0 {
		ref.Keyword = strings.Join(mhs, ", ")
	} else if ots := tags["OT"]; len(ots) > 0 {
		ref.Keyword = strings.Join(ots, ", ")
	}

	if dp := first("DP"); dp != "" {
		if parts := nbibDateParts(dp); parts != nil {
			ref.Issued = &reference.Date{DateParts: [][]int{parts}}
		}
	}

	return ref, nil
}

// nbibShortAuthor parses abbreviated "Smith JA" author values.
func nbibShortAuthor(s string) reference.Name {
	words := strings.Fields(s)
	if len(words) < 2 {
		return reference.Name{Literal: s}
	}
	return reference.Name{
		Family: strings.Join(words[:len(words)-1], " "),
		Given:  words[len(words)-1],
	}
}

// nbibDateParts parses DP values like "2023 Mar 15", "2023 Mar", or "2023".
func nbibDateParts(dp string) []int {
	words := strings.Fields(dp)
	if len(words) == 0 {
		return nil
	}
	year, err := strconv.Atoi(words[0])
	if err != nil {
		return nil
	}
	parts := []int{year}

	if len(words) > 1 {
		if m, ok := monthNumbers[strings.ToLower(words[1])]; ok {
			parts = append(parts, m)
			if len(words) > 2 {
				if d, err := strconv.Atoi(words[2]); err == nil && d >= 1 && d <= 31 {
					parts = append(parts, d)
				}
			}
		}
	}
	return parts
}
