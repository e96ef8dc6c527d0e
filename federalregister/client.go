// Package federalregister provides a client for the Federal Register REST
// API (https://www.federalregister.gov/developers/documentation/api/v1).
package federalregister

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fedsearch/fedreg"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production Federal Register endpoint.
const DefaultBaseURL = "https://www.federalregister.gov"

// DefaultPerPage is the page size for document listings; 100 is the API's
// maximum.
const DefaultPerPage = 100

// DefaultRequestTimeout bounds a single API request.
const DefaultRequestTimeout = 30 * time.Second

// defaultRequestsPerSecond keeps the client well under the API's published
// rate limits.
const defaultRequestsPerSecond = 2.0

// Ensure Client implements fedreg.DocumentSource at compile time.
var _ fedreg.DocumentSource = (*Client)(nil)

// Client retrieves documents from the Federal Register API.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	delays  []time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Mainly useful for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithRetryDelays overrides the backoff delays between retried requests.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) { c.delays = delays }
}

// NewClient creates a Client with production defaults: 30s request timeout,
// 2 requests per second, and 1s/2s/4s retry backoff.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultRequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
		delays:  []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListDocuments returns one page of shallow document records ordered newest
// first.
func (c *Client) ListDocuments(ctx context.Context, opts fedreg.ListOptions) (*fedreg.DocumentPage, error) {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	if !opts.Since.IsZero() {
		params.Set("conditions[publication_date][gte]", opts.Since.Format("2006-01-02"))
	}
	if !opts.Until.IsZero() {
		params.Set("conditions[publication_date][lte]", opts.Until.Format("2006-01-02"))
	}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("order", "newest")

	body, err := c.get(ctx, c.baseURL+"/api/v1/documents.json?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode document listing: %w", err)
	}

	docs := make([]*fedreg.Document, 0, len(payload.Results))
	for _, raw := range payload.Results {
		doc, err := parseDocument(raw)
		if err != nil {
			continue // skip records without a document number
		}
		docs = append(docs, doc)
	}

	return &fedreg.DocumentPage{
		Documents: docs,
		HasMore:   len(payload.Results) == perPage,
	}, nil
}

// FetchDocument retrieves the full record for a document number.
func (c *Client) FetchDocument(ctx context.Context, number string) (*fedreg.Document, error) {
	if number == "" {
		return nil, fedreg.Errorf(fedreg.EINVALID, "document number required")
	}

	body, err := c.get(ctx, c.baseURL+"/api/v1/documents/"+url.PathEscape(number)+".json")
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", number, err)
	}
	return doc, nil
}

// get performs a rate-limited GET with retry backoff. Responses other than
// 200 are errors; 404 maps to ENOTFOUND and is not retried.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= len(c.delays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delays[attempt-1]):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.getOnce(ctx, u)
		if err == nil {
			return body, nil
		}
		if fedreg.ErrorCode(err) == fedreg.ENOTFOUND {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fedreg.Errorf(fedreg.ENOTFOUND, "document not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, u)
	}

	return io.ReadAll(resp.Body)
}

// parseDocument maps an API record onto the domain document. The raw bytes
// are preserved verbatim for hashing and fallback search.
func parseDocument(raw []byte) (*fedreg.Document, error) {
	var rec struct {
		DocumentNumber  string          `json:"document_number"`
		Title           string          `json:"title"`
		Abstract        string          `json:"abstract"`
		Excerpt         string          `json:"excerpt"`
		Type            string          `json:"type"`
		PublicationDate string          `json:"publication_date"`
		Agencies        json.RawMessage `json:"agencies"`
		Action          string          `json:"action"`
		PDFURL          string          `json:"pdf_url"`
		HTMLURL         string          `json:"html_url"`
		FullText        string          `json:"full_text"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if rec.DocumentNumber == "" {
		return nil, fedreg.Errorf(fedreg.EINVALID, "record has no document number")
	}

	doc := &fedreg.Document{
		ID:           rec.DocumentNumber,
		Title:        rec.Title,
		Abstract:     rec.Abstract,
		Excerpt:      rec.Excerpt,
		FullText:     rec.FullText,
		DocumentType: rec.Type,
		Action:       rec.Action,
		PDFURL:       rec.PDFURL,
		HTMLURL:      rec.HTMLURL,
		RawJSON:      string(raw),
		Agencies:     fedreg.ParseAgencies(string(rec.Agencies)),
	}

	if rec.PublicationDate != "" {
		if ts, err := time.Parse("2006-01-02", rec.PublicationDate); err == nil {
			doc.PublicationDate = ts
		}
	}
	return doc, nil
}
