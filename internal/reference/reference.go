// Package reference defines the CSL-JSON record model for bibliographic entries.
package reference

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reference is a single bibliographic record in CSL-JSON form.
// Field names and casing follow the CSL-JSON schema so records round-trip
// cleanly through Pandoc and other CSL consumers.
type Reference struct {
	// Identity
	ID   string `json:"id"`   // Human-readable citation key, unique within the library
	Type string `json:"type"` // CSL work type: article-journal, book, chapter, ...

	// Bibliographic fields
	Title          string `json:"title,omitempty"`
	Author         []Name `json:"author,omitempty"`
	ContainerTitle string `json:"container-title,omitempty"` // Journal, book, or site name
	Publisher      string `json:"publisher,omitempty"`
	Abstract       string `json:"abstract,omitempty"`
	Volume         string `json:"volume,omitempty"`
	Issue          string `json:"issue,omitempty"`
	Page           string `json:"page,omitempty"`
	Issued         *Date  `json:"issued,omitempty"`
	Accessed       *Date  `json:"accessed,omitempty"`

	// Identifiers
	DOI   string `json:"DOI,omitempty"`
	PMID  string `json:"PMID,omitempty"`
	PMCID string `json:"PMCID,omitempty"`
	ISBN  string `json:"ISBN,omitempty"`
	URL   string `json:"URL,omitempty"`

	// Keyword is a comma- or semicolon-joined list per the CSL-JSON convention.
	Keyword string `json:"keyword,omitempty"`

	// Custom holds system-managed metadata outside the CSL schema.
	Custom Custom `json:"custom,omitempty"`
}

// Name represents one author, editor, or other contributor.
// Literal is used for institutional authors ("World Health Organization").
type Name struct {
	Family  string `json:"family,omitempty"`
	Given   string `json:"given,omitempty"`
	Literal string `json:"literal,omitempty"`
}

// Date is a CSL date: one or more [year, month?, day?] tuples.
// Year is the only mandatory component.
type Date struct {
	DateParts [][]int `json:"date-parts"`
}

// Custom is the extension namespace for metadata the system manages itself.
type Custom struct {
	UUID           string       `json:"uuid,omitempty"`       // Immutable, assigned once at creation
	CreatedAt      string       `json:"created_at,omitempty"` // RFC3339, never changes
	Timestamp      string       `json:"timestamp,omitempty"`  // RFC3339, refreshed on every mutation
	Fulltext       string       `json:"fulltext,omitempty"`   // Filename of the main fulltext attachment
	Attachments    []Attachment `json:"attachments,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	AdditionalURLs []string     `json:"additional_urls,omitempty"`
	Check          *CheckResult `json:"check,omitempty"`
}

// Attachment records one file stored in the record's attachment directory.
type Attachment struct {
	Filename string `json:"filename"`
	Role     string `json:"role"` // fulltext, supplement
}

// CheckResult is the outcome of the last external-identifier validation.
type CheckResult struct {
	CheckedAt string `json:"checked_at"`
	Status    string `json:"status"` // ok, mismatch, unreachable
	Detail    string `json:"detail,omitempty"`
}

// AttachmentRoles lists the valid attachment role values.
var AttachmentRoles = []string{"fulltext", "supplement"}

// New returns a Reference with freshly assigned system metadata.
// The uuid is immutable for the life of the record and created_at never changes.
func New(now time.Time) Reference {
	ts := now.UTC().Format(time.RFC3339)
	return Reference{
		Custom: Custom{
			UUID:      uuid.NewString(),
			CreatedAt: ts,
			Timestamp: ts,
		},
	}
}

// Init assigns system metadata to a record that lacks it, e.g. a freshly
// parsed import candidate. Existing uuid and created_at are preserved.
func (r *Reference) Init(now time.Time) {
	ts := now.UTC().Format(time.RFC3339)
	if r.Custom.UUID == "" {
		r.Custom.UUID = uuid.NewString()
	}
	if r.Custom.CreatedAt == "" {
		r.Custom.CreatedAt = ts
	}
	if r.Custom.Timestamp == "" {
		r.Custom.Timestamp = ts
	}
}

// Touch refreshes the last-modified timestamp. Call after any field mutation.
func (r *Reference) Touch(now time.Time) {
	r.Custom.Timestamp = now.UTC().Format(time.RFC3339)
}

// Year returns the year of the first issued date tuple, or 0 if the record
// has no usable issued date.
func (r Reference) Year() int {
	if r.Issued == nil || len(r.Issued.DateParts) == 0 || len(r.Issued.DateParts[0]) == 0 {
		return 0
	}
	return r.Issued.DateParts[0][0]
}

// FirstAuthorFamily returns the family name of the first author, falling back
// to the literal name for institutional authors. Empty if the record has no
// authors.
func (r Reference) FirstAuthorFamily() string {
	if len(r.Author) == 0 {
		return ""
	}
	a := r.Author[0]
	if a.Family != "" {
		return a.Family
	}
	return a.Literal
}

// KeywordList splits the CSL keyword string into individual keywords.
// Both comma and semicolon separators are accepted.
func (r Reference) KeywordList() []string {
	if r.Keyword == "" {
		return nil
	}
	fields := strings.FieldsFunc(r.Keyword, func(c rune) bool {
		return c == ',' || c == ';'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// AttachmentDir returns the name of the record's attachment directory,
// derived from the citation key plus a uuid prefix so the directory survives
// citation-key collisions across renames.
func (r Reference) AttachmentDir() string {
	u := r.Custom.UUID
	if len(u) > 8 {
		u = u[:8]
	}
	if u == "" {
		return r.ID
	}
	return r.ID + "_" + u
}

// YearOf builds a single-tuple CSL date from a year. Returns nil for year 0
// so absent dates stay absent.
func YearOf(year int) *Date {
	if year == 0 {
		return nil
	}
	return &Date{DateParts: [][]int{{year}}}
}
