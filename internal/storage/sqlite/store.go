// Package sqlite stores the almanac document in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS almanac_documents (
	name TEXT PRIMARY KEY,
	body TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Store keeps one named document row
type Store struct {
	db     *sql.DB
	name   string
	logger *zap.SugaredLogger
}

// Open opens (creating when needed) the database at path
func Open(ctx context.Context, path, name string, logger *zap.SugaredLogger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database at %q: %w", path, err)
	}
	// Limit SQLite to a single open connection to avoid "database is locked" errors
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating almanac_documents: %w", err)
	}

	return &Store{db: db, name: name, logger: logger}, nil
}

// Load returns the stored document, or an empty one
func (s *Store) Load(ctx context.Context) (*almanac.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM almanac_documents WHERE name = ?", s.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Infow("no almanac found, starting empty", "name", s.name)
		return almanac.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading almanac %s: %w", s.name, err)
	}

	doc := almanac.NewDocument()
	if err := json.Unmarshal([]byte(body), doc); err != nil {
		return nil, fmt.Errorf("decoding almanac %s: %w", s.name, err)
	}
	return doc, nil
}

// Save upserts the document row
func (s *Store) Save(ctx context.Context, doc *almanac.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding almanac: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO almanac_documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		s.name, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving almanac %s: %w", s.name, err)
	}

	s.logger.Infow("saved almanac", "name", s.name, "bytes", len(body))
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
