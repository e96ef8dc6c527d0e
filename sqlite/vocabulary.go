package sqlite

import (
	"context"

	"github.com/fedsearch/fedreg"
)

// Vocabulary sizing. Keywords are mined from document titles only; titles
// are short and dense, so a modest scan window is enough.
const (
	vocabKeywordCount  = 30
	vocabKeywordMinLen = 4
	vocabTitleScanCap  = 20000
)

// Compile-time interface verification.
var _ fedreg.VocabularyService = (*VocabularyService)(nil)

// VocabularyService builds vocabulary snapshots from the SQLite store.
type VocabularyService struct {
	db   *DB
	docs *DocumentService
}

// NewVocabularyService creates a new VocabularyService.
func NewVocabularyService(db *DB, docs *DocumentService) *VocabularyService {
	return &VocabularyService{db: db, docs: docs}
}

// RefreshVocabulary recomputes the vocabulary from the document set. The
// computation is deterministic, so refreshing over unchanged documents
// yields an identical vocabulary.
func (s *VocabularyService) RefreshVocabulary(ctx context.Context) (*fedreg.Vocabulary, error) {
	agencies, err := s.agencyNames(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.documentTypes(ctx)
	if err != nil {
		return nil, err
	}

	keywords, err := s.titleKeywords(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.docs.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &fedreg.Vocabulary{
		Agencies:              agencies,
		DocumentTypes:         types,
		Keywords:              keywords,
		TotalDocuments:        stats.TotalDocuments,
		LatestPublicationDate: stats.LatestPublicationDate,
	}, nil
}

func (s *VocabularyService) agencyNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM agencies GROUP BY name ORDER BY COUNT(*) DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, rows.Err()
}

func (s *VocabularyService) documentTypes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT document_type FROM documents WHERE document_type != '' ORDER BY document_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var dt string
		if err := rows.Scan(&dt); err != nil {
			return nil, err
		}
		types = append(types, dt)
	}
	return types, rows.Err()
}

func (s *VocabularyService) titleKeywords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title FROM documents WHERE title != '' LIMIT ?
	`, vocabTitleScanCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fedreg.RankKeywords(titles, vocabKeywordCount, vocabKeywordMinLen), nil
}
