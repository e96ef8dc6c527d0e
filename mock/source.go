package mock

import (
	"context"

	"github.com/fedsearch/fedreg"
)

var _ fedreg.DocumentSource = (*DocumentSource)(nil)

// DocumentSource is a mock implementation of fedreg.DocumentSource.
type DocumentSource struct {
	ListDocumentsFn func(ctx context.Context, opts fedreg.ListOptions) (*fedreg.DocumentPage, error)
	FetchDocumentFn func(ctx context.Context, documentNumber string) (*fedreg.Document, error)
}

func (s *DocumentSource) ListDocuments(ctx context.Context, opts fedreg.ListOptions) (*fedreg.DocumentPage, error) {
	return s.ListDocumentsFn(ctx, opts)
}

func (s *DocumentSource) FetchDocument(ctx context.Context, documentNumber string) (*fedreg.Document, error) {
	return s.FetchDocumentFn(ctx, documentNumber)
}
