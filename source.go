package fedreg

import (
	"context"
	"time"
)

// ListOptions selects a page of documents from the upstream publisher.
type ListOptions struct {
	// Since and Until bound the publication-date window (inclusive).
	Since time.Time
	Until time.Time

	// Page is 1-based.
	Page    int
	PerPage int
}

// DocumentPage is one page of shallow document records.
type DocumentPage struct {
	Documents []*Document

	// HasMore indicates another page may follow.
	HasMore bool
}

// DocumentSource lists and fetches documents from an upstream publisher.
type DocumentSource interface {
	// ListDocuments returns one page of shallow document records ordered
	// newest first.
	ListDocuments(ctx context.Context, opts ListOptions) (*DocumentPage, error)

	// FetchDocument retrieves the full record for a document number.
	// Returns ENOTFOUND if the publisher does not know the document.
	FetchDocument(ctx context.Context, number string) (*Document, error)
}
