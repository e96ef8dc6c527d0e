package mock

import (
	"context"

	"github.com/fedsearch/fedreg"
)

var _ fedreg.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of fedreg.DocumentService.
type DocumentService struct {
	SearchDocumentsFn       func(ctx context.Context, filter fedreg.SearchFilter) ([]*fedreg.Document, error)
	FindDocumentsByAgencyFn func(ctx context.Context, agency string, limit int) ([]*fedreg.Document, error)
	RecentDocumentsFn       func(ctx context.Context, limit int) ([]*fedreg.Document, error)
	UpsertDocumentFn        func(ctx context.Context, doc *fedreg.Document) error
	ContentHashFn           func(ctx context.Context, id string) (string, error)
	StatsFn                 func(ctx context.Context) (fedreg.StoreStats, error)
}

func (s *DocumentService) SearchDocuments(ctx context.Context, filter fedreg.SearchFilter) ([]*fedreg.Document, error) {
	return s.SearchDocumentsFn(ctx, filter)
}

func (s *DocumentService) FindDocumentsByAgency(ctx context.Context, agency string, limit int) ([]*fedreg.Document, error) {
	return s.FindDocumentsByAgencyFn(ctx, agency, limit)
}

func (s *DocumentService) RecentDocuments(ctx context.Context, limit int) ([]*fedreg.Document, error) {
	return s.RecentDocumentsFn(ctx, limit)
}

func (s *DocumentService) UpsertDocument(ctx context.Context, doc *fedreg.Document) error {
	return s.UpsertDocumentFn(ctx, doc)
}

func (s *DocumentService) ContentHash(ctx context.Context, id string) (string, error) {
	return s.ContentHashFn(ctx, id)
}

func (s *DocumentService) Stats(ctx context.Context) (fedreg.StoreStats, error) {
	return s.StatsFn(ctx)
}
