package sqlite_test

import (
	"context"
	"testing"

	"github.com/fedsearch/fedreg"
	"github.com/fedsearch/fedreg/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyService_RefreshVocabulary(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, svc *sqlite.DocumentService) {
		t.Helper()
		seedDocument(t, svc, &fedreg.Document{
			ID:              "2025-0001",
			Title:           "Pesticide Tolerances: Glyphosate",
			DocumentType:    "Rule",
			PublicationDate: date(2025, 6, 10),
			Agencies:        []fedreg.Agency{{Name: "Environmental Protection Agency"}},
		})
		seedDocument(t, svc, &fedreg.Document{
			ID:              "2025-0002",
			Title:           "Pesticide Registration Review",
			DocumentType:    "Notice",
			PublicationDate: date(2025, 6, 12),
			Agencies:        []fedreg.Agency{{Name: "Environmental Protection Agency"}},
		})
		seedDocument(t, svc, &fedreg.Document{
			ID:              "2025-0003",
			Title:           "Medicare Payment Policies",
			DocumentType:    "Rule",
			PublicationDate: date(2025, 6, 11),
			Agencies:        []fedreg.Agency{{Name: "Centers for Medicare & Medicaid Services"}},
		})
	}

	t.Run("builds vocabulary from the document set", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		docs := sqlite.NewDocumentService(db, nil)
		seed(t, docs)
		svc := sqlite.NewVocabularyService(db, docs)

		vocab, err := svc.RefreshVocabulary(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{
			"Environmental Protection Agency",
			"Centers for Medicare & Medicaid Services",
		}, vocab.Agencies, "agencies ranked by document count")
		assert.Equal(t, []string{"Notice", "Rule"}, vocab.DocumentTypes)
		assert.Equal(t, "pesticide", vocab.Keywords[0], "most frequent title keyword first")
		assert.Equal(t, 3, vocab.TotalDocuments)
		assert.Equal(t, date(2025, 6, 12), vocab.LatestPublicationDate)
	})

	t.Run("refresh is idempotent over an unchanged document set", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		docs := sqlite.NewDocumentService(db, nil)
		seed(t, docs)
		svc := sqlite.NewVocabularyService(db, docs)
		ctx := context.Background()

		first, err := svc.RefreshVocabulary(ctx)
		require.NoError(t, err)
		second, err := svc.RefreshVocabulary(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("empty store yields empty vocabulary", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		docs := sqlite.NewDocumentService(db, nil)
		svc := sqlite.NewVocabularyService(db, docs)

		vocab, err := svc.RefreshVocabulary(context.Background())
		require.NoError(t, err)
		assert.Empty(t, vocab.Agencies)
		assert.Empty(t, vocab.DocumentTypes)
		assert.Empty(t, vocab.Keywords)
		assert.Zero(t, vocab.TotalDocuments)
	})
}
