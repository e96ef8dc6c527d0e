// Package slog provides logging decorators for the core services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fedsearch/fedreg"
)

// Ensure LoggingDocumentService implements fedreg.DocumentService.
var _ fedreg.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with operation logging.
type LoggingDocumentService struct {
	next   fedreg.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next fedreg.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// SearchDocuments delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) SearchDocuments(ctx context.Context, filter fedreg.SearchFilter) (docs []*fedreg.Document, err error) {
	begin := time.Now()
	defer func() {
		if err != nil {
			s.logger.Error("search documents", "query", filter.Query, "err", err)
			return
		}
		s.logger.Info("search documents",
			"query", filter.Query,
			"results", len(docs),
			"duration", time.Since(begin),
		)
	}()
	return s.next.SearchDocuments(ctx, filter)
}

// FindDocumentsByAgency delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) FindDocumentsByAgency(ctx context.Context, agency string, limit int) (docs []*fedreg.Document, err error) {
	begin := time.Now()
	defer func() {
		if err != nil {
			s.logger.Error("find by agency", "agency", agency, "err", err)
			return
		}
		s.logger.Info("find by agency",
			"agency", agency,
			"results", len(docs),
			"duration", time.Since(begin),
		)
	}()
	return s.next.FindDocumentsByAgency(ctx, agency, limit)
}

// RecentDocuments delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) RecentDocuments(ctx context.Context, limit int) (docs []*fedreg.Document, err error) {
	begin := time.Now()
	defer func() {
		if err != nil {
			s.logger.Error("recent documents", "limit", limit, "err", err)
			return
		}
		s.logger.Info("recent documents",
			"limit", limit,
			"results", len(docs),
			"duration", time.Since(begin),
		)
	}()
	return s.next.RecentDocuments(ctx, limit)
}

// UpsertDocument delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) UpsertDocument(ctx context.Context, doc *fedreg.Document) (err error) {
	begin := time.Now()
	defer func() {
		if err != nil {
			s.logger.Error("upsert document", "document", doc.ID, "err", err)
			return
		}
		s.logger.Debug("upsert document",
			"document", doc.ID,
			"duration", time.Since(begin),
		)
	}()
	return s.next.UpsertDocument(ctx, doc)
}

// ContentHash delegates to the wrapped service.
func (s *LoggingDocumentService) ContentHash(ctx context.Context, id string) (string, error) {
	return s.next.ContentHash(ctx, id)
}

// Stats delegates to the wrapped service.
func (s *LoggingDocumentService) Stats(ctx context.Context) (fedreg.StoreStats, error) {
	return s.next.Stats(ctx)
}
