// Package fetch retrieves bibliographic metadata for identifiers: CSL-JSON
// from doi.org content negotiation and MEDLINE records from NCBI E-utilities.
// Fetched records are candidates; duplicate detection and id allocation
// happen in the library's Add operation.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/ncukondo/reference-manager-sub005/internal/importer"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

const (
	doiBaseURL    = "https://doi.org"
	eutilsBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	cslJSONAccept = "application/vnd.citationstyles.csl+json"

	defaultTimeout = 30 * time.Second

	// NCBI allows 3 requests/second without an API key, 10 with one.
	ncbiRateNoKey   = 3.0
	ncbiRateWithKey = 10.0
)

// Cache is an injected key-value store of fetched records, keyed by
// identifier. It lets batch adds avoid re-fetching the same identifier.
type Cache interface {
	Get(key string) (reference.Reference, bool)
	Put(key string, ref reference.Reference)
}

// MemoryCache is a map-backed Cache suitable for one CLI invocation.
type MemoryCache struct {
	entries map[string]reference.Reference
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]reference.Reference)}
}

func (c *MemoryCache) Get(key string) (reference.Reference, bool) {
	ref, ok := c.entries[key]
	return ref, ok
}

func (c *MemoryCache) Put(key string, ref reference.Reference) {
	c.entries[key] = ref
}

// Client fetches metadata with per-service rate limiting.
type Client struct {
	httpClient  *http.Client
	doiBase     string
	eutilsBase  string
	ncbiAPIKey  string
	ncbiLimiter *rate.Limiter
	cache       Cache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs overrides the service endpoints. For testing.
func WithBaseURLs(doi, eutils string) Option {
	return func(c *Client) {
		c.doiBase = doi
		c.eutilsBase = eutils
	}
}

// WithNCBIAPIKey sets the NCBI API key and raises the request rate.
func WithNCBIAPIKey(key string) Option {
	return func(c *Client) { c.ncbiAPIKey = key }
}

// WithCache injects a response cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// NewClient creates a metadata fetch client. The NCBI API key is read from
// the NCBI_API_KEY environment variable unless overridden by an option.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		doiBase:    doiBaseURL,
		eutilsBase: eutilsBaseURL,
		ncbiAPIKey: os.Getenv("NCBI_API_KEY"),
	}
	for _, opt := range opts {
		opt(c)
	}

	limit := ncbiRateNoKey
	if c.ncbiAPIKey != "" {
		limit = ncbiRateWithKey
	}
	c.ncbiLimiter = rate.NewLimiter(rate.Limit(limit), 1)
	return c
}

// ByDOI resolves a DOI to a CSL-JSON record via doi.org content negotiation.
func (c *Client) ByDOI(ctx context.Context, doi string) (reference.Reference, error) {
	if ref, ok := c.cached("doi:" + doi); ok {
		return ref, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.doiBase+"/"+url.PathEscape(doi), nil)
	if err != nil {
		return reference.Reference{}, fmt.Errorf("building DOI request: %w", err)
	}
	req.Header.Set("Accept", cslJSONAccept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reference.Reference{}, fmt.Errorf("fetching DOI %s: %w", doi, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return reference.Reference{}, fmt.Errorf("DOI %s not found", doi)
	default:
		return reference.Reference{}, fmt.Errorf("fetching DOI %s: status %d", doi, resp.StatusCode)
	}

	var ref reference.Reference
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return reference.Reference{}, fmt.Errorf("parsing CSL-JSON for %s: %w", doi, err)
	}

	// The registrar's item id is not our citation key; the allocator
	// assigns one from the bibliographic data.
	ref.ID = ""
	if ref.DOI == "" {
		ref.DOI = doi
	}
	if ref.Type == "" {
		ref.Type = "document"
	}

	c.store("doi:"+doi, ref)
	return ref, nil
}

// ByPMID resolves a PubMed id by fetching the MEDLINE (NBIB) record and
// running it through the NBIB importer, so fetched and file-imported PubMed
// data take the same conversion path.
func (c *Client) ByPMID(ctx context.Context, pmid string) (reference.Reference, error) {
	if ref, ok := c.cached("pmid:" + pmid); ok {
		return ref, nil
	}

	if err := c.ncbiLimiter.Wait(ctx); err != nil {
		return reference.Reference{}, err
	}

	q := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"rettype": {"medline"},
		"retmode": {"text"},
	}
	if c.ncbiAPIKey != "" {
		q.Set("api_key", c.ncbiAPIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.eutilsBase+"/efetch.fcgi?"+q.Encode(), nil)
	if err != nil {
		return reference.Reference{}, fmt.Errorf("building PubMed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reference.Reference{}, fmt.Errorf("fetching PMID %s: %w", pmid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return reference.Reference{}, fmt.Errorf("fetching PMID %s: status %d", pmid, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return reference.Reference{}, fmt.Errorf("reading PubMed response: %w", err)
	}

	refs, errs := importer.ParseNBIB(body)
	if len(refs) == 0 {
		if len(errs) > 0 {
			return reference.Reference{}, fmt.Errorf("parsing PMID %s: %w", pmid, errs[0])
		}
		return reference.Reference{}, fmt.Errorf("PMID %s not found", pmid)
	}

	ref := refs[0]
	if ref.PMID == "" {
		ref.PMID = pmid
	}

	c.store("pmid:"+pmid, ref)
	return ref, nil
}

func (c *Client) cached(key string) (reference.Reference, bool) {
	if c.cache == nil {
		return reference.Reference{}, false
	}
	return c.cache.Get(key)
}

func (c *Client) store(key string, ref reference.Reference) {
	if c.cache != nil {
		c.cache.Put(key, ref)
	}
}
