package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fedsearch/fedreg"
	"github.com/fedsearch/fedreg/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedDocument(t *testing.T, svc *sqlite.DocumentService, doc *fedreg.Document) {
	t.Helper()
	require.NoError(t, svc.UpsertDocument(context.Background(), doc))
}

func TestDocumentService_UpsertDocument(t *testing.T) {
	t.Parallel()

	t.Run("round-trips all fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		ctx := context.Background()

		doc := &fedreg.Document{
			ID:              "2025-10001",
			Title:           "Pesticide Tolerances: Glyphosate",
			Abstract:        "EPA establishes tolerances.",
			Excerpt:         "Establishes tolerances for residues.",
			FullText:        "Full rule text.",
			DocumentType:    "Rule",
			PublicationDate: date(2025, 6, 12),
			Agencies:        []fedreg.Agency{{Name: "Environmental Protection Agency"}},
			Action:          "Final rule.",
			PDFURL:          "https://example.com/doc.pdf",
			HTMLURL:         "https://example.com/doc.htm",
			RawJSON:         `{"document_number":"2025-10001"}`,
			ContentHash:     "abc123",
		}
		seedDocument(t, svc, doc)

		docs, err := svc.RecentDocuments(ctx, 1)
		require.NoError(t, err)
		require.Len(t, docs, 1)

		got := docs[0]
		assert.Equal(t, doc.ID, got.ID)
		assert.Equal(t, doc.Title, got.Title)
		assert.Equal(t, doc.Abstract, got.Abstract)
		assert.Equal(t, doc.Excerpt, got.Excerpt)
		assert.Equal(t, doc.FullText, got.FullText)
		assert.Equal(t, doc.DocumentType, got.DocumentType)
		assert.Equal(t, doc.PublicationDate, got.PublicationDate)
		assert.Equal(t, doc.Agencies, got.Agencies)
		assert.Equal(t, doc.Action, got.Action)
		assert.Equal(t, doc.RawJSON, got.RawJSON)
		assert.Equal(t, doc.ContentHash, got.ContentHash)
		assert.False(t, got.LastUpdated.IsZero())
	})

	t.Run("overwrites existing document and its agencies", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		ctx := context.Background()

		seedDocument(t, svc, &fedreg.Document{
			ID:       "2025-10001",
			Title:    "Original Title",
			Agencies: []fedreg.Agency{{Name: "Environmental Protection Agency"}},
		})
		seedDocument(t, svc, &fedreg.Document{
			ID:       "2025-10001",
			Title:    "Updated Title",
			Agencies: []fedreg.Agency{{Name: "Food and Drug Administration"}},
		})

		docs, err := svc.RecentDocuments(ctx, 10)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Updated Title", docs[0].Title)

		epa, err := svc.FindDocumentsByAgency(ctx, "Environmental Protection Agency", 10)
		require.NoError(t, err)
		assert.Empty(t, epa, "old agency association removed")

		fda, err := svc.FindDocumentsByAgency(ctx, "Food and Drug Administration", 10)
		require.NoError(t, err)
		assert.Len(t, fda, 1)
	})

	t.Run("rejects invalid document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)

		err := svc.UpsertDocument(context.Background(), &fedreg.Document{})
		assert.Equal(t, fedreg.EINVALID, fedreg.ErrorCode(err))
	})
}

func TestDocumentService_SearchDocuments(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, svc *sqlite.DocumentService) {
		t.Helper()
		seedDocument(t, svc, &fedreg.Document{
			ID:              "2025-0001",
			Title:           "Pesticide Tolerances: Glyphosate",
			Abstract:        "EPA establishes pesticide tolerances.",
			PublicationDate: date(2025, 6, 10),
			Agencies:        []fedreg.Agency{{Name: "Environmental Protection Agency"}},
		})
		seedDocument(t, svc, &fedreg.Document{
			ID:              "2025-0002",
			Title:           "Medicare Program Updates",
			Abstract:        "Payment policy revisions.",
			PublicationDate: date(2025, 6, 11),
			Agencies:        []fedreg.Agency{{Name: "Centers for Medicare & Medicaid Services"}},
		})
		seedDocument(t, svc, &fedreg.Document{
			ID:              "2025-0003",
			Title:           "Energy Conservation Standards",
			Abstract:        "Standards for consumer pesticide products.",
			PublicationDate: date(2025, 6, 12),
			Agencies:        []fedreg.Agency{{Name: "Energy Department"}},
		})
	}

	for _, mode := range []struct {
		name string
		opts []sqlite.Option
	}{
		{name: "full-text"},
		{name: "substring fallback", opts: []sqlite.Option{sqlite.WithoutFullText()}},
	} {
		t.Run(mode.name, func(t *testing.T) {
			t.Parallel()

			t.Run("finds keyword matches across fields", func(t *testing.T) {
				t.Parallel()

				db := setupTestDB(t, mode.opts...)
				svc := sqlite.NewDocumentService(db, nil)
				seed(t, svc)

				docs, err := svc.SearchDocuments(context.Background(), fedreg.SearchFilter{Query: "pesticide"})
				require.NoError(t, err)

				var ids []string
				for _, doc := range docs {
					ids = append(ids, doc.ID)
				}
				assert.ElementsMatch(t, []string{"2025-0001", "2025-0003"}, ids)
			})

			t.Run("unmatched query returns empty list not error", func(t *testing.T) {
				t.Parallel()

				db := setupTestDB(t, mode.opts...)
				svc := sqlite.NewDocumentService(db, nil)
				seed(t, svc)

				docs, err := svc.SearchDocuments(context.Background(), fedreg.SearchFilter{Query: "nonexistentword12345"})
				require.NoError(t, err)
				assert.Empty(t, docs)
			})

			t.Run("honors limit", func(t *testing.T) {
				t.Parallel()

				db := setupTestDB(t, mode.opts...)
				svc := sqlite.NewDocumentService(db, nil)
				seed(t, svc)

				docs, err := svc.SearchDocuments(context.Background(), fedreg.SearchFilter{Query: "pesticide", Limit: 1})
				require.NoError(t, err)
				assert.Len(t, docs, 1)
			})

			t.Run("agency filter narrows results", func(t *testing.T) {
				t.Parallel()

				db := setupTestDB(t, mode.opts...)
				svc := sqlite.NewDocumentService(db, nil)
				seed(t, svc)

				docs, err := svc.SearchDocuments(context.Background(), fedreg.SearchFilter{
					Query:  "pesticide",
					Agency: "Energy Department",
				})
				require.NoError(t, err)
				require.Len(t, docs, 1)
				assert.Equal(t, "2025-0003", docs[0].ID)
			})
		})
	}

	t.Run("substring fallback orders by publication date descending", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t, sqlite.WithoutFullText())
		svc := sqlite.NewDocumentService(db, nil)
		seed(t, svc)

		docs, err := svc.SearchDocuments(context.Background(), fedreg.SearchFilter{Query: "pesticide"})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "2025-0003", docs[0].ID)
		assert.Equal(t, "2025-0001", docs[1].ID)
	})

	t.Run("empty query returns most recent documents", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		seed(t, svc)

		docs, err := svc.SearchDocuments(context.Background(), fedreg.SearchFilter{})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "2025-0003", docs[0].ID)
	})
}

func TestDocumentService_FindDocumentsByAgency(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, svc *sqlite.DocumentService) {
		t.Helper()
		seedDocument(t, svc, &fedreg.Document{
			ID:              "2025-0001",
			Title:           "Pesticide Tolerances",
			PublicationDate: date(2025, 6, 10),
			Agencies:        []fedreg.Agency{{Name: "Environmental Protection Agency"}, {Name: "EPA"}},
		})
		seedDocument(t, svc, &fedreg.Document{
			ID:              "2025-0002",
			Title:           "Drug Labeling",
			PublicationDate: date(2025, 6, 11),
			Agencies:        []fedreg.Agency{{Name: "Food and Drug Administration"}},
		})
	}

	t.Run("matching is case-insensitive", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		seed(t, svc)
		ctx := context.Background()

		upper, err := svc.FindDocumentsByAgency(ctx, "EPA", 10)
		require.NoError(t, err)
		lower, err := svc.FindDocumentsByAgency(ctx, "epa", 10)
		require.NoError(t, err)

		assert.Equal(t, upper, lower)
		require.Len(t, upper, 1)
		assert.Equal(t, "2025-0001", upper[0].ID)
	})

	t.Run("punctuation-insensitive matching", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		seed(t, svc)

		docs, err := svc.FindDocumentsByAgency(context.Background(), "E.P.A.", 10)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "2025-0001", docs[0].ID)
	})

	t.Run("substring fallback when exact key misses", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		seed(t, svc)

		docs, err := svc.FindDocumentsByAgency(context.Background(), "Drug Administration", 10)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "2025-0002", docs[0].ID)
	})

	t.Run("unknown agency returns empty list", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		seed(t, svc)

		docs, err := svc.FindDocumentsByAgency(context.Background(), "Martian Affairs Bureau", 10)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("empty agency is invalid", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)

		_, err := svc.FindDocumentsByAgency(context.Background(), "  ", 10)
		assert.Equal(t, fedreg.EINVALID, fedreg.ErrorCode(err))
	})
}

func TestDocumentService_RecentDocuments(t *testing.T) {
	t.Parallel()

	t.Run("returns newest across agencies ordered descending", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		ctx := context.Background()

		// 3 EPA documents and 2 FDA documents.
		for i, d := range []struct {
			id     string
			agency string
			day    int
		}{
			{"2025-0001", "Environmental Protection Agency", 1},
			{"2025-0002", "Environmental Protection Agency", 3},
			{"2025-0003", "Environmental Protection Agency", 5},
			{"2025-0004", "Food and Drug Administration", 2},
			{"2025-0005", "Food and Drug Administration", 4},
		} {
			seedDocument(t, svc, &fedreg.Document{
				ID:              d.id,
				Title:           fmt.Sprintf("Document %d", i+1),
				PublicationDate: date(2025, 6, d.day),
				Agencies:        []fedreg.Agency{{Name: d.agency}},
			})
		}

		docs, err := svc.RecentDocuments(ctx, 2)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "2025-0003", docs[0].ID)
		assert.Equal(t, "2025-0005", docs[1].ID)

		for i := 1; i < len(docs); i++ {
			assert.False(t, docs[i].PublicationDate.After(docs[i-1].PublicationDate),
				"publication dates must be non-increasing")
		}
	})

	t.Run("breaks date ties by ID descending", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)

		seedDocument(t, svc, &fedreg.Document{ID: "2025-0001", Title: "A", PublicationDate: date(2025, 6, 1)})
		seedDocument(t, svc, &fedreg.Document{ID: "2025-0002", Title: "B", PublicationDate: date(2025, 6, 1)})

		docs, err := svc.RecentDocuments(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "2025-0002", docs[0].ID)
	})

	t.Run("clamps excessive limits", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		seedDocument(t, svc, &fedreg.Document{ID: "2025-0001", Title: "A"})

		docs, err := svc.RecentDocuments(context.Background(), 1_000_000)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

func TestDocumentService_ContentHash(t *testing.T) {
	t.Parallel()

	t.Run("returns stored hash", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		seedDocument(t, svc, &fedreg.Document{ID: "2025-0001", Title: "A", ContentHash: "deadbeef"})

		hash, err := svc.ContentHash(context.Background(), "2025-0001")
		require.NoError(t, err)
		assert.Equal(t, "deadbeef", hash)
	})

	t.Run("returns ENOTFOUND for unknown document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)

		_, err := svc.ContentHash(context.Background(), "missing")
		assert.Equal(t, fedreg.ENOTFOUND, fedreg.ErrorCode(err))
	})
}

func TestDocumentService_Stats(t *testing.T) {
	t.Parallel()

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.TotalDocuments)
		assert.True(t, stats.LatestPublicationDate.IsZero())
	})

	t.Run("reports count and latest date", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		seedDocument(t, svc, &fedreg.Document{ID: "2025-0001", Title: "A", PublicationDate: date(2025, 6, 1)})
		seedDocument(t, svc, &fedreg.Document{ID: "2025-0002", Title: "B", PublicationDate: date(2025, 6, 12)})

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalDocuments)
		assert.Equal(t, date(2025, 6, 12), stats.LatestPublicationDate)
	})
}

func TestDocumentService_MalformedAgencies(t *testing.T) {
	t.Parallel()

	t.Run("normalizes to empty list instead of failing", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, nil)
		ctx := context.Background()

		seedDocument(t, svc, &fedreg.Document{ID: "2025-0001", Title: "A"})
		_, err := db.ExecContext(ctx, "UPDATE documents SET agencies = 'not json' WHERE id = ?", "2025-0001")
		require.NoError(t, err)

		docs, err := svc.RecentDocuments(ctx, 10)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Empty(t, docs[0].Agencies)
	})
}
