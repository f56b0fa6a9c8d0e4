// Package docstore persists the stored document fields (external id,
// title, stance) that the inverted index does not carry.
package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/shanks-ir/argos/internal/corpus"
	"github.com/shanks-ir/argos/internal/errors"
)

// Store maps internal document numbers to their stored fields.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// Open opens (or creates) the document store at path.
// An empty path creates an in-memory store for testing.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.IOError(fmt.Sprintf("cannot create docstore directory for %s", path), err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.IOError("cannot open docstore", err)
	}

	// Single writer to prevent lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL must be set via PRAGMA for modernc.org/sqlite.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.IOError("cannot set docstore pragma", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, errors.IOError("cannot initialize docstore schema", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS documents (
		internal_id INTEGER PRIMARY KEY,
		external_id TEXT NOT NULL UNIQUE,
		title       TEXT NOT NULL DEFAULT '',
		stance      TEXT NOT NULL DEFAULT ''
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put stores the fields of doc under the given internal id.
func (s *Store) Put(ctx context.Context, internalID uint32, doc corpus.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.InternalError("docstore is closed", nil)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (internal_id, external_id, title, stance) VALUES (?, ?, ?, ?)`,
		internalID, doc.ID, doc.Title, doc.Stance)
	if err != nil {
		return fmt.Errorf("storing document %s: %w", doc.ID, err)
	}
	return nil
}

// ExternalID resolves an internal document number to the externally
// visible document identifier.
func (s *Store) ExternalID(ctx context.Context, internalID uint32) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", errors.InternalError("docstore is closed", nil)
	}

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT external_id FROM documents WHERE internal_id = ?`, internalID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", errors.InternalError(fmt.Sprintf("unknown internal document %d", internalID), nil)
	}
	if err != nil {
		return "", fmt.Errorf("resolving document %d: %w", internalID, err)
	}
	return id, nil
}

// Get returns the stored fields of an internal document number.
func (s *Store) Get(ctx context.Context, internalID uint32) (corpus.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return corpus.Document{}, errors.InternalError("docstore is closed", nil)
	}

	var doc corpus.Document
	err := s.db.QueryRowContext(ctx,
		`SELECT external_id, title, stance FROM documents WHERE internal_id = ?`,
		internalID).Scan(&doc.ID, &doc.Title, &doc.Stance)
	if err == sql.ErrNoRows {
		return corpus.Document{}, errors.InternalError(fmt.Sprintf("unknown internal document %d", internalID), nil)
	}
	if err != nil {
		return corpus.Document{}, fmt.Errorf("loading document %d: %w", internalID, err)
	}
	return doc, nil
}

// Reset drops every stored document so a rebuild can assign internal
// ids from zero again.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.InternalError("docstore is closed", nil)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("resetting docstore: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, errors.InternalError("docstore is closed", nil)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
