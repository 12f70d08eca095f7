package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

const sampleCSL = `{
	"type": "article-journal",
	"title": "Deep Learning in Medicine",
	"author": [{"family": "Smith", "given": "Jane"}],
	"container-title": "Journal of Medical AI",
	"issued": {"date-parts": [[2023, 4]]},
	"DOI": "10.1234/jmai.2023.001"
}`

const sampleMedline = `PMID- 36000000
TI  - Telehealth adoption in rural clinics.
AU  - Doe J
FAU - Doe, John
JT  - Journal of Rural Health
DP  - 2022 Nov
AID - 10.5678/jrh.2022.42 [doi]
PT  - Journal Article
`

func TestByDOI(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		if r.URL.Path != "/10.1234%2Fjmai.2023.001" && r.URL.Path != "/10.1234/jmai.2023.001" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.citationstyles.csl+json")
		fmt.Fprint(w, sampleCSL)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, srv.URL))
	ref, err := c.ByDOI(context.Background(), "10.1234/jmai.2023.001")
	if err != nil {
		t.Fatalf("ByDOI() error = %v", err)
	}

	if gotAccept != "application/vnd.citationstyles.csl+json" {
		t.Errorf("Accept header = %q", gotAccept)
	}
	if ref.Title != "Deep Learning in Medicine" {
		t.Errorf("title = %q", ref.Title)
	}
	if ref.DOI != "10.1234/jmai.2023.001" {
		t.Errorf("doi = %q", ref.DOI)
	}
	if ref.ID != "" {
		t.Errorf("id = %q, want empty until allocation", ref.ID)
	}
	if ref.Year() != 2023 {
		t.Errorf("year = %d", ref.Year())
	}
}

func TestByDOINotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, srv.URL))
	if _, err := c.ByDOI(context.Background(), "10.9999/nope"); err == nil {
		t.Error("expected error for unknown DOI")
	}
}

func TestByPMID(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, sampleMedline)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, srv.URL))
	ref, err := c.ByPMID(context.Background(), "36000000")
	if err != nil {
		t.Fatalf("ByPMID() error = %v", err)
	}

	r, err := http.NewRequest(http.MethodGet, "/?"+gotQuery, nil)
	if err != nil {
		t.Fatal(err)
	}
	q := r.URL.Query()
	if q.Get("db") != "pubmed" || q.Get("rettype") != "medline" || q.Get("id") != "36000000" {
		t.Errorf("query = %q", gotQuery)
	}

	if ref.Title != "Telehealth adoption in rural clinics" {
		t.Errorf("title = %q", ref.Title)
	}
	if ref.PMID != "36000000" {
		t.Errorf("pmid = %q", ref.PMID)
	}
	if ref.DOI != "10.5678/jrh.2022.42" {
		t.Errorf("doi = %q", ref.DOI)
	}
}

func TestByPMIDUsesAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		fmt.Fprint(w, sampleMedline)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, srv.URL), WithNCBIAPIKey("secret"))
	if _, err := c.ByPMID(context.Background(), "36000000"); err != nil {
		t.Fatal(err)
	}
	if gotKey != "secret" {
		t.Errorf("api_key = %q", gotKey)
	}
}

func TestCacheAvoidsRefetch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, sampleCSL)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, srv.URL), WithCache(NewMemoryCache()))
	for i := 0; i < 3; i++ {
		if _, err := c.ByDOI(context.Background(), "10.1234/jmai.2023.001"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache()
	if _, ok := cache.Get("doi:x"); ok {
		t.Error("empty cache returned a hit")
	}
	cache.Put("doi:x", reference.Reference{Title: "T"})
	ref, ok := cache.Get("doi:x")
	if !ok || ref.Title != "T" {
		t.Errorf("Get = %+v, %v", ref, ok)
	}
}
