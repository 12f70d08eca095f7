package cite

import (
	"strings"
	"testing"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

func articleRef() reference.Reference {
	return reference.Reference{
		ID:   "smith-2023",
		Type: "article-journal",
		Author: []reference.Name{
			{Family: "Smith", Given: "Jane Ann"},
			{Family: "Doe", Given: "John"},
		},
		Title:          "Deep learning in clinical practice",
		ContainerTitle: "Journal of Medical AI",
		Volume:         "12",
		Issue:          "3",
		Page:           "45-67",
		DOI:            "10.1234/jmai.2023.001",
		Issued:         &reference.Date{DateParts: [][]int{{2023, 4}}},
	}
}

func TestRenderAPA(t *testing.T) {
	got, err := Render(articleRef(), StyleAPA)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "Smith, J. A., & Doe, J. (2023). Deep learning in clinical practice. " +
		"Journal of Medical AI, 12(3), 45-67. https://doi.org/10.1234/jmai.2023.001"
	if got != want {
		t.Errorf("apa =\n  %q\nwant\n  %q", got, want)
	}
}

func TestRenderAPANoDate(t *testing.T) {
	ref := articleRef()
	ref.Issued = nil
	got, err := Render(ref, StyleAPA)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "(n.d.)") {
		t.Errorf("missing n.d. marker: %q", got)
	}
}

func TestRenderVancouver(t *testing.T) {
	got, err := Render(articleRef(), StyleVancouver)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "Smith JA, Doe J. Deep learning in clinical practice. " +
		"Journal of Medical AI. 2023;12(3):45-67. doi:10.1234/jmai.2023.001"
	if got != want {
		t.Errorf("vancouver =\n  %q\nwant\n  %q", got, want)
	}
}

func TestRenderUnknownStyle(t *testing.T) {
	if _, err := Render(articleRef(), "chicago"); err == nil {
		t.Error("expected error for unsupported style")
	}
}

func TestRenderLiteralAuthor(t *testing.T) {
	ref := articleRef()
	ref.Author = []reference.Name{{Literal: "World Health Organization"}}
	got, err := Render(ref, StyleAPA)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "World Health Organization (2023).") {
		t.Errorf("apa = %q", got)
	}
}

func TestToBibTeX(t *testing.T) {
	got := ToBibTeX(articleRef())

	for _, want := range []string{
		"@article{smith-2023,",
		"author = {Smith, Jane Ann and Doe, John},",
		"title = {Deep learning in clinical practice},",
		"journal = {Journal of Medical AI},",
		"year = {2023},",
		"month = {4},",
		"volume = {12},",
		"number = {3},",
		"pages = {45--67},",
		"doi = {10.1234/jmai.2023.001},",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestToBibTeXEscapesLatex(t *testing.T) {
	ref := articleRef()
	ref.Title = "Profit & loss: 100% of $cases"
	got := ToBibTeX(ref)
	if !strings.Contains(got, `title = {Profit \& loss: 100\% of \$cases},`) {
		t.Errorf("title not escaped:\n%s", got)
	}
}

func TestToBibTeXInstitutionalAuthor(t *testing.T) {
	ref := articleRef()
	ref.Author = []reference.Name{{Literal: "World Health Organization"}}
	got := ToBibTeX(ref)
	if !strings.Contains(got, "author = {{World Health Organization}},") {
		t.Errorf("institutional author not braced:\n%s", got)
	}
}

func TestToBibTeXEntryTypes(t *testing.T) {
	tests := []struct {
		cslType string
		want    string
	}{
		{"article-journal", "@article{"},
		{"paper-conference", "@inproceedings{"},
		{"book", "@book{"},
		{"chapter", "@incollection{"},
		{"webpage", "@misc{"},
		{"something-odd", "@misc{"},
	}
	for _, tt := range tests {
		t.Run(tt.cslType, func(t *testing.T) {
			ref := articleRef()
			ref.Type = tt.cslType
			if got := ToBibTeX(ref); !strings.HasPrefix(got, tt.want) {
				t.Errorf("entry = %q, want prefix %q", got[:30], tt.want)
			}
		})
	}
}

func TestToBibTeXListSeparatesEntries(t *testing.T) {
	a := articleRef()
	b := articleRef()
	b.ID = "doe-2023"
	got := ToBibTeXList([]reference.Reference{a, b})
	if !strings.Contains(got, "}\n\n@article{doe-2023,") {
		t.Errorf("entries not separated by blank line:\n%s", got)
	}
}

func TestRenderList(t *testing.T) {
	refs := []reference.Reference{articleRef(), articleRef()}
	out, err := RenderList(refs, StyleVancouver)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Errorf("len = %d", len(out))
	}
}
