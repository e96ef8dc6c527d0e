// Package sqlite provides SQLite-based storage implementations for fedreg
// services, including an FTS5 full-text index with a substring fallback for
// builds where FTS5 is unavailable.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string

	fullText     bool // FTS5 index available
	skipFullText bool
}

// Option configures a DB.
type Option func(*DB)

// WithoutFullText skips creation of the FTS5 index. Search then uses the
// substring fallback. Mainly useful for exercising the fallback path.
func WithoutFullText() Option {
	return func(db *DB) {
		db.skipFullText = true
	}
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string, opts ...Option) *DB {
	db := &DB{path: path}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// FullTextAvailable reports whether the FTS5 index exists. When false,
// document search uses the substring fallback.
func (db *DB) FullTextAvailable() bool {
	return db.fullText
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			abstract TEXT NOT NULL DEFAULT '',
			excerpt TEXT NOT NULL DEFAULT '',
			full_text TEXT NOT NULL DEFAULT '',
			document_type TEXT NOT NULL DEFAULT '',
			publication_date TEXT NOT NULL DEFAULT '',
			agencies TEXT NOT NULL DEFAULT '[]',
			action TEXT NOT NULL DEFAULT '',
			pdf_url TEXT NOT NULL DEFAULT '',
			html_url TEXT NOT NULL DEFAULT '',
			raw_json TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS agencies (
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			name_key TEXT NOT NULL,
			UNIQUE (document_id, name)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_publication_date ON documents(publication_date);
		CREATE INDEX IF NOT EXISTS idx_documents_document_type ON documents(document_type);
		CREATE INDEX IF NOT EXISTS idx_agencies_name_key ON agencies(name_key);
	`

	if _, err := db.db.Exec(schema); err != nil {
		return err
	}

	if db.skipFullText {
		db.fullText = false
		return nil
	}

	// The FTS5 index mirrors the searchable document columns and is kept
	// in sync by triggers. Creation failure (e.g. an SQLite build without
	// the FTS5 extension) is not fatal: search degrades to the substring
	// fallback.
	fts := `
		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			title, abstract, excerpt, full_text, raw_json,
			content='documents', content_rowid='rowid'
		);

		CREATE TRIGGER IF NOT EXISTS documents_fts_insert AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts(rowid, title, abstract, excerpt, full_text, raw_json)
			VALUES (new.rowid, new.title, new.abstract, new.excerpt, new.full_text, new.raw_json);
		END;

		CREATE TRIGGER IF NOT EXISTS documents_fts_delete AFTER DELETE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, abstract, excerpt, full_text, raw_json)
			VALUES ('delete', old.rowid, old.title, old.abstract, old.excerpt, old.full_text, old.raw_json);
		END;

		CREATE TRIGGER IF NOT EXISTS documents_fts_update AFTER UPDATE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, abstract, excerpt, full_text, raw_json)
			VALUES ('delete', old.rowid, old.title, old.abstract, old.excerpt, old.full_text, old.raw_json);
			INSERT INTO documents_fts(rowid, title, abstract, excerpt, full_text, raw_json)
			VALUES (new.rowid, new.title, new.abstract, new.excerpt, new.full_text, new.raw_json);
		END;
	`

	if _, err := db.db.Exec(fts); err != nil {
		db.fullText = false
		return nil
	}
	db.fullText = true
	return nil
}
