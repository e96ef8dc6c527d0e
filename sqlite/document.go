package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/fedsearch/fedreg"
)

// dateFormat is how publication dates are stored; lexicographic order equals
// chronological order.
const dateFormat = "2006-01-02"

// Compile-time interface verification.
var _ fedreg.DocumentService = (*DocumentService)(nil)

// DocumentService implements fedreg.DocumentService using SQLite.
type DocumentService struct {
	db     *DB
	logger *slog.Logger
}

// NewDocumentService creates a new DocumentService. A nil logger disables
// logging.
func NewDocumentService(db *DB, logger *slog.Logger) *DocumentService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DocumentService{db: db, logger: logger}
}

const documentColumns = "d.id, d.title, d.abstract, d.excerpt, d.full_text, d.document_type, d.publication_date, d.agencies, d.action, d.pdf_url, d.html_url, d.raw_json, d.content_hash, d.last_updated"

// SearchDocuments retrieves documents matching the filter. With the FTS5
// index present, results are ranked by bm25 relevance; otherwise a
// case-insensitive substring match runs over the same columns, ordered by
// publication date descending with ties broken by ID descending.
func (s *DocumentService) SearchDocuments(ctx context.Context, filter fedreg.SearchFilter) ([]*fedreg.Document, error) {
	var query strings.Builder
	var args []any

	q := strings.TrimSpace(filter.Query)

	switch {
	case q != "" && s.db.FullTextAvailable():
		match := ftsMatchExpr(q)
		if match == "" {
			return nil, nil
		}
		query.WriteString("SELECT " + documentColumns +
			" FROM documents_fts JOIN documents d ON d.rowid = documents_fts.rowid" +
			" WHERE documents_fts MATCH ?")
		args = append(args, match)

	case q != "":
		like := "%" + q + "%"
		query.WriteString("SELECT " + documentColumns + " FROM documents d" +
			" WHERE (d.title LIKE ? OR d.abstract LIKE ? OR d.excerpt LIKE ? OR d.full_text LIKE ? OR d.raw_json LIKE ?)")
		args = append(args, like, like, like, like, like)

	default:
		query.WriteString("SELECT " + documentColumns + " FROM documents d WHERE 1=1")
	}

	if filter.Agency != "" {
		query.WriteString(" AND d.id IN (SELECT document_id FROM agencies WHERE name_key = ?)")
		args = append(args, fedreg.NormalizeAgency(filter.Agency))
	}

	if q != "" && s.db.FullTextAvailable() {
		query.WriteString(" ORDER BY documents_fts.rank, d.publication_date DESC, d.id DESC")
	} else {
		query.WriteString(" ORDER BY d.publication_date DESC, d.id DESC")
	}

	query.WriteString(" LIMIT ?")
	args = append(args, fedreg.ClampLimit(filter.Limit))

	return s.queryDocuments(ctx, query.String(), args...)
}

// ftsMatchExpr converts free text into an FTS5 match expression. Each token
// is quoted so user input cannot inject FTS5 operators; tokens are joined
// with OR for recall, with bm25 ranking sorting the better matches first.
func ftsMatchExpr(q string) string {
	tokens := fedreg.Tokenize(q)
	if len(tokens) == 0 {
		// Stopword-only queries still deserve a literal lookup.
		tokens = strings.Fields(strings.ToLower(q))
	}
	quoted := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		quoted = append(quoted, `"`+strings.ReplaceAll(tok, `"`, ``)+`"`)
	}
	return strings.Join(quoted, " OR ")
}

// FindDocumentsByAgency retrieves documents published by the named agency.
// It matches on the normalized agency key first and falls back to a
// substring match over keys when nothing matches exactly.
func (s *DocumentService) FindDocumentsByAgency(ctx context.Context, agency string, limit int) ([]*fedreg.Document, error) {
	key := fedreg.NormalizeAgency(agency)
	if key == "" {
		return nil, fedreg.Errorf(fedreg.EINVALID, "agency name required")
	}
	limit = fedreg.ClampLimit(limit)

	docs, err := s.queryDocuments(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		WHERE d.id IN (SELECT document_id FROM agencies WHERE name_key = ?)
		ORDER BY d.publication_date DESC, d.id DESC
		LIMIT ?
	`, key, limit)
	if err != nil || len(docs) > 0 {
		return docs, err
	}

	return s.queryDocuments(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		WHERE d.id IN (SELECT document_id FROM agencies WHERE name_key LIKE ?)
		ORDER BY d.publication_date DESC, d.id DESC
		LIMIT ?
	`, "%"+key+"%", limit)
}

// RecentDocuments retrieves the most recently published documents.
func (s *DocumentService) RecentDocuments(ctx context.Context, limit int) ([]*fedreg.Document, error) {
	return s.queryDocuments(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		ORDER BY d.publication_date DESC, d.id DESC
		LIMIT ?
	`, fedreg.ClampLimit(limit))
}

// UpsertDocument inserts the document or overwrites an existing row with the
// same ID, refreshing the agency associations.
func (s *DocumentService) UpsertDocument(ctx context.Context, doc *fedreg.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if doc.LastUpdated.IsZero() {
		doc.LastUpdated = time.Now().UTC()
	}

	agenciesJSON, err := json.Marshal(doc.Agencies)
	if err != nil {
		return fedreg.Errorf(fedreg.EINVALID, "cannot encode agencies")
	}

	pubDate := ""
	if !doc.PublicationDate.IsZero() {
		pubDate = doc.PublicationDate.Format(dateFormat)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, abstract, excerpt, full_text, document_type, publication_date,
			agencies, action, pdf_url, html_url, raw_json, content_hash, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			abstract = excluded.abstract,
			excerpt = excluded.excerpt,
			full_text = excluded.full_text,
			document_type = excluded.document_type,
			publication_date = excluded.publication_date,
			agencies = excluded.agencies,
			action = excluded.action,
			pdf_url = excluded.pdf_url,
			html_url = excluded.html_url,
			raw_json = excluded.raw_json,
			content_hash = excluded.content_hash,
			last_updated = excluded.last_updated
	`, doc.ID, doc.Title, doc.Abstract, doc.Excerpt, doc.FullText, doc.DocumentType, pubDate,
		string(agenciesJSON), doc.Action, doc.PDFURL, doc.HTMLURL, doc.RawJSON, doc.ContentHash,
		doc.LastUpdated.Format(time.RFC3339))
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM agencies WHERE document_id = ?", doc.ID); err != nil {
		return err
	}
	for _, agency := range doc.Agencies {
		if agency.Name == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO agencies (document_id, name, name_key) VALUES (?, ?, ?)
		`, doc.ID, agency.Name, agency.Key()); err != nil {
			return err
		}
	}
	return nil
}

// ContentHash returns the stored content hash for a document.
func (s *DocumentService) ContentHash(ctx context.Context, id string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT content_hash FROM documents WHERE id = ?", id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", fedreg.Errorf(fedreg.ENOTFOUND, "document not found")
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// Stats reports the document count and most recent publication date.
func (s *DocumentService) Stats(ctx context.Context) (fedreg.StoreStats, error) {
	var stats fedreg.StoreStats
	var latest sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MAX(publication_date) FROM documents",
	).Scan(&stats.TotalDocuments, &latest)
	if err != nil {
		return fedreg.StoreStats{}, err
	}

	if latest.Valid && latest.String != "" {
		if ts, err := time.Parse(dateFormat, latest.String); err == nil {
			stats.LatestPublicationDate = ts
		}
	}
	return stats, nil
}

func (s *DocumentService) queryDocuments(ctx context.Context, query string, args ...any) ([]*fedreg.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*fedreg.Document
	for rows.Next() {
		doc, err := s.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *DocumentService) scanDocument(rows *sql.Rows) (*fedreg.Document, error) {
	var doc fedreg.Document
	var agencies, pubDate, lastUpdated string

	if err := rows.Scan(&doc.ID, &doc.Title, &doc.Abstract, &doc.Excerpt, &doc.FullText,
		&doc.DocumentType, &pubDate, &agencies, &doc.Action, &doc.PDFURL, &doc.HTMLURL,
		&doc.RawJSON, &doc.ContentHash, &lastUpdated); err != nil {
		return nil, err
	}

	if pubDate != "" {
		if ts, err := time.Parse(dateFormat, pubDate); err == nil {
			doc.PublicationDate = ts
		}
	}
	if lastUpdated != "" {
		if ts, err := time.Parse(time.RFC3339, lastUpdated); err == nil {
			doc.LastUpdated = ts
		}
	}

	doc.Agencies = fedreg.ParseAgencies(agencies)
	if doc.Agencies == nil && strings.TrimSpace(agencies) != "" && agencies != "[]" {
		// Malformed stored agency data normalizes to an empty list.
		s.logger.Warn("malformed agencies payload", "document", doc.ID)
	}

	return &doc, nil
}
