package fedreg

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Document represents a single Federal Register document.
type Document struct {
	ID              string    `json:"id"` // Federal Register document number
	Title           string    `json:"title"`
	Abstract        string    `json:"abstract"`
	Excerpt         string    `json:"excerpt"`
	FullText        string    `json:"fullText"`
	DocumentType    string    `json:"documentType"`
	PublicationDate time.Time `json:"publicationDate"`
	Agencies        []Agency  `json:"agencies"`
	Action          string    `json:"action"`
	PDFURL          string    `json:"pdfUrl"`
	HTMLURL         string    `json:"htmlUrl"`
	RawJSON         string    `json:"rawJson"`
	ContentHash     string    `json:"contentHash"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document number required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	return nil
}

// Summary returns the display summary for the document: the excerpt if
// present, otherwise the abstract, otherwise a placeholder.
func (d *Document) Summary() string {
	if d.Excerpt != "" {
		return d.Excerpt
	}
	if d.Abstract != "" {
		return d.Abstract
	}
	return "No summary available"
}

// Agency represents a federal agency associated with a document.
type Agency struct {
	Name string `json:"name"`
}

// Key returns the normalized matching key for the agency name.
func (a Agency) Key() string {
	return NormalizeAgency(a.Name)
}

// NormalizeAgency lowercases an agency name and strips punctuation so that
// "E.P.A." and "epa" compare equal.
func NormalizeAgency(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	prevSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevSpace = false
		case r == ' ' && !prevSpace:
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// ParseAgencies decodes a stored agencies payload into a list of agencies.
// The upstream API is inconsistent: the field may hold a JSON list of
// objects, a list of bare names, a single object, or garbage. Anything
// unparseable normalizes to an empty list rather than an error.
func ParseAgencies(raw string) []Agency {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// Single object form.
		if name := agencyName([]byte(raw)); name != "" {
			return []Agency{{Name: name}}
		}
		return nil
	}

	var out []Agency
	for _, item := range items {
		if name := agencyName(item); name != "" {
			out = append(out, Agency{Name: name})
		}
	}
	return out
}

// agencyName extracts an agency name from a JSON fragment that is either a
// string or an object with a name-like field.
func agencyName(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Name    string `json:"name"`
		RawName string `json:"raw_name"`
		Agency  string `json:"agency"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, name := range []string{obj.Name, obj.RawName, obj.Agency} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return ""
}

// Result-count bounds shared by every lookup strategy.
const (
	DefaultSearchLimit = 25
	MaxResultLimit     = 100
)

// ClampLimit bounds a requested result count: non-positive values get the
// default, anything above the ceiling is capped.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	if limit > MaxResultLimit {
		return MaxResultLimit
	}
	return limit
}

// SearchFilter represents a filter for SearchDocuments.
type SearchFilter struct {
	// Query is matched against title, abstract, excerpt, full text and the
	// raw payload. Empty means no text constraint.
	Query string `json:"query"`

	// Agency restricts results to documents published by a matching agency.
	Agency string `json:"agency"`

	Limit int `json:"limit"`
}

// StoreStats summarizes the document store for help output.
type StoreStats struct {
	TotalDocuments        int       `json:"totalDocuments"`
	LatestPublicationDate time.Time `json:"latestPublicationDate"`
}

// DocumentService represents a service for querying and managing documents.
type DocumentService interface {
	// SearchDocuments retrieves documents matching the filter. When the
	// store has a full-text index the results are ordered by relevance
	// score; otherwise a substring match ordered by publication date
	// descending (ties broken by ID descending) is used. Both paths honor
	// filter.Limit.
	SearchDocuments(ctx context.Context, filter SearchFilter) ([]*Document, error)

	// FindDocumentsByAgency retrieves documents published by the named
	// agency. Matching is case- and punctuation-insensitive on the
	// normalized agency key, with a substring fallback when the exact key
	// matches nothing.
	FindDocumentsByAgency(ctx context.Context, agency string, limit int) ([]*Document, error)

	// RecentDocuments retrieves the most recently published documents,
	// ordered by publication date descending, ties by ID descending.
	RecentDocuments(ctx context.Context, limit int) ([]*Document, error)

	// UpsertDocument inserts the document or overwrites an existing row
	// with the same ID, refreshing the agency associations.
	UpsertDocument(ctx context.Context, doc *Document) error

	// ContentHash returns the stored content hash for a document, or
	// ENOTFOUND if the document does not exist.
	ContentHash(ctx context.Context, id string) (string, error)

	// Stats reports the document count and most recent publication date.
	Stats(ctx context.Context) (StoreStats, error)
}
