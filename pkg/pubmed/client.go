// Package pubmed provides a client for the NCBI E-utilities API: esearch for
// PMID lists, esummary for title/date summaries, and efetch for the full
// per-paper detail payload.
package pubmed

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"
)

// ErrRetrieval marks a failed or undecodable external call. Callers decide
// whether it aborts the query (search) or just skips one paper (detail).
var ErrRetrieval = eris.New("pubmed: retrieval failed")

// Client defines the E-utilities operations the pipeline consumes.
type Client interface {
	// Search runs an esearch query and returns up to maxResults PMIDs
	// sorted by relevance.
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
	// Summary fetches the esummary record for one PMID: title and the raw
	// publication-date string.
	Summary(ctx context.Context, pmid string) (*Summary, error)
	// FetchDetail fetches the efetch detail payload for one PMID as a
	// UTF-8 string.
	FetchDetail(ctx context.Context, pmid string) (string, error)
}

// Summary is the lightweight per-paper record: title and raw pubdate.
type Summary struct {
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the E-utilities base URL (for testing).
func WithBaseURL(base string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithTimeout bounds each external call.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the outbound request rate. NCBI tolerates 3 req/s
// without an API key; the limiter is shared across all calls so the
// aggregate budget holds even when callers fetch concurrently.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithAPIKey sets an NCBI API key, sent on every request.
func WithAPIKey(key string) Option {
	return func(c *httpClient) {
		c.apiKey = key
	}
}

// WithTool sets the tool/email identification parameters NCBI asks
// registered clients to send.
func WithTool(tool, email string) Option {
	return func(c *httpClient) {
		c.tool = tool
		c.email = email
	}
}

type httpClient struct {
	baseURL string
	apiKey  string
	tool    string
	email   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an E-utilities client with a shared rate limiter.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		limiter: rate.NewLimiter(3, 3),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues one paced GET against an E-utilities endpoint and returns the
// body and Content-Type. A single attempt: transient failures surface as
// ErrRetrieval rather than being retried.
func (c *httpClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", eris.Wrap(err, "pubmed: rate limiter wait")
	}

	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if c.tool != "" {
		params.Set("tool", c.tool)
	}
	if c.email != "" {
		params.Set("email", c.email)
	}

	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", eris.Wrap(err, "pubmed: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", eris.Wrapf(ErrRetrieval, "%s: %v", endpoint, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, "", eris.Wrapf(ErrRetrieval, "%s: unexpected status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", eris.Wrapf(ErrRetrieval, "%s: read body: %v", endpoint, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// searchResponse mirrors the esearch JSON envelope.
type searchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (c *httpClient) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {strconv.Itoa(maxResults)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	}
	body, _, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrapf(ErrRetrieval, "esearch: decode response: %v", err)
	}
	return sr.ESearchResult.IDList, nil
}

// summaryResponse mirrors the esummary JSON envelope, keyed by PMID.
type summaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

func (c *httpClient) Summary(ctx context.Context, pmid string) (*Summary, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"json"},
	}
	body, _, err := c.get(ctx, "esummary.fcgi", params)
	if err != nil {
		return nil, err
	}

	var sr summaryResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrapf(ErrRetrieval, "esummary: decode response: %v", err)
	}
	raw, ok := sr.Result[pmid]
	if !ok {
		return nil, eris.Wrapf(ErrRetrieval, "esummary: no record for %s", pmid)
	}
	var s Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, eris.Wrapf(ErrRetrieval, "esummary: decode record %s: %v", pmid, err)
	}
	return &s, nil
}

func (c *httpClient) FetchDetail(ctx context.Context, pmid string) (string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
	}
	body, contentType, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return "", err
	}
	return decodeCharset(body, contentType)
}

// decodeCharset converts a response body to UTF-8 when the Content-Type
// declares a different charset. Unknown charsets fall back to the raw bytes.
func decodeCharset(body []byte, contentType string) (string, error) {
	if contentType == "" {
		return string(body), nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body), nil
	}
	charset, ok := params["charset"]
	if !ok || strings.EqualFold(charset, "utf-8") {
		return string(body), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(body), nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", eris.Wrapf(ErrRetrieval, "efetch: decode charset %s: %v", charset, err)
	}
	return string(decoded), nil
}
