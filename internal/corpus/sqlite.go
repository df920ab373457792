package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/postforge/internal/document"
)

// SQLiteStore persists the document index to a SQLite file so listings
// survive process restarts. Use ":memory:" for tests.
//
// The store holds plain rows; the in-memory Corpus remains the single source
// of truth for ordering and bucket membership and is rebuilt via LoadAll.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) the index database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		identifier TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		published_at INTEGER NOT NULL,
		categories TEXT NOT NULL,
		layout TEXT,
		raw_body BLOB NOT NULL,
		rendered_body BLOB NOT NULL,
		source TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_published_at ON documents(published_at);
	CREATE INDEX IF NOT EXISTS idx_source ON documents(source);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save writes doc, replacing any prior row with the same identifier.
func (s *SQLiteStore) Save(ctx context.Context, doc *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories, err := json.Marshal(doc.Categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents
		 (identifier, title, published_at, categories, layout, raw_body, rendered_body, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.Identifier, doc.Title, doc.PublishedAt.Unix(), string(categories),
		doc.Layout, []byte(doc.RawBody), []byte(doc.RenderedBody), doc.Source,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Delete removes the row for identifier. Missing rows are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE identifier = ?", identifier); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// LoadAll reads every stored document, most recent first.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, title, published_at, categories, layout, raw_body, rendered_body, source
		 FROM documents ORDER BY published_at DESC, identifier ASC`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		var (
			doc           document.Document
			publishedUnix int64
			categories    string
			raw, rendered []byte
		)
		if err := rows.Scan(&doc.Identifier, &doc.Title, &publishedUnix, &categories,
			&doc.Layout, &raw, &rendered, &doc.Source); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.PublishedAt = time.Unix(publishedUnix, 0).UTC()
		if err := json.Unmarshal([]byte(categories), &doc.Categories); err != nil {
			return nil, fmt.Errorf("unmarshal categories for %s: %w", doc.Identifier, err)
		}
		doc.RawBody = string(raw)
		doc.RenderedBody = string(rendered)
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return docs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
