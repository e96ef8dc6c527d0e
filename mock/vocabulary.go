package mock

import (
	"context"

	"github.com/fedsearch/fedreg"
)

var _ fedreg.VocabularyService = (*VocabularyService)(nil)

// VocabularyService is a mock implementation of fedreg.VocabularyService.
type VocabularyService struct {
	RefreshVocabularyFn func(ctx context.Context) (*fedreg.Vocabulary, error)
}

func (s *VocabularyService) RefreshVocabulary(ctx context.Context) (*fedreg.Vocabulary, error) {
	return s.RefreshVocabularyFn(ctx)
}
