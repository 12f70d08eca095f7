// Package pdf extracts text and DOIs from PDF attachments.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches DOIs in running text: 10.<registrant>/<suffix>.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// doiScanPages limits the DOI scan; publishers put the DOI on the first page.
const doiScanPages = 3

// SniffDOI scans the first few pages of a PDF for a DOI. Returns "" when no
// DOI is found; that is a normal outcome, not an error.
func SniffDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > doiScanPages {
		pages = doiScanPages
	}

	for i := 1; i <= pages; i++ {
		text, err := pageText(r, i)
		if err != nil {
			continue
		}
		for _, m := range doiPattern.FindAllString(text, -1) {
			if doi := strings.TrimRight(m, ".,;:)"); plausibleDOI(doi) {
				return doi, nil
			}
		}
	}
	return "", nil
}

// Text extracts plain text from a PDF, up to maxPages pages (0 for all).
// Pages that fail to decode are skipped.
func Text(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := r.NumPage()
	if maxPages > 0 && maxPages < pages {
		pages = maxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		text, err := pageText(r, i)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func pageText(r *pdf.Reader, num int) (string, error) {
	page := r.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// plausibleDOI filters out regex hits that cannot be real DOIs.
func plausibleDOI(doi string) bool {
	slash := strings.IndexByte(doi, '/')
	return len(doi) >= 10 && slash > 0 && slash < len(doi)-1
}
