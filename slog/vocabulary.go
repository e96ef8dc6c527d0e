package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fedsearch/fedreg"
)

// Ensure LoggingVocabularyService implements fedreg.VocabularyService.
var _ fedreg.VocabularyService = (*LoggingVocabularyService)(nil)

// LoggingVocabularyService wraps a VocabularyService with refresh logging.
type LoggingVocabularyService struct {
	next   fedreg.VocabularyService
	logger *slog.Logger
}

// NewLoggingVocabularyService creates a new LoggingVocabularyService.
func NewLoggingVocabularyService(next fedreg.VocabularyService, logger *slog.Logger) *LoggingVocabularyService {
	return &LoggingVocabularyService{next: next, logger: logger}
}

// RefreshVocabulary delegates to the wrapped service and logs the refresh.
func (s *LoggingVocabularyService) RefreshVocabulary(ctx context.Context) (vocab *fedreg.Vocabulary, err error) {
	begin := time.Now()
	defer func() {
		if err != nil {
			s.logger.Error("vocabulary refresh", "err", err)
			return
		}
		s.logger.Info("vocabulary refresh",
			"agencies", len(vocab.Agencies),
			"keywords", len(vocab.Keywords),
			"documents", vocab.TotalDocuments,
			"duration", time.Since(begin),
		)
	}()
	return s.next.RefreshVocabulary(ctx)
}
