// Package file stores the almanac document as a JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"go.uber.org/zap"
)

// Store reads and writes one JSON document on disk
type Store struct {
	path   string
	logger *zap.SugaredLogger
}

// New creates a file store at path
func New(path string, logger *zap.SugaredLogger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the document location
func (s *Store) Path() string {
	return s.path
}

// Load reads the document, returning an empty one when the file is missing
func (s *Store) Load(_ context.Context) (*almanac.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Infow("no almanac found, starting empty", "path", s.path)
		return almanac.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	doc := almanac.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	return doc, nil
}

// Save writes the document through a temporary file in the same directory
// and renames it into place.
func (s *Store) Save(_ context.Context, doc *almanac.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding almanac: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".lake-almanac-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	s.logger.Infow("saved almanac", "path", s.path, "bytes", len(data))
	return nil
}

// Close is a no-op for file storage
func (s *Store) Close() error {
	return nil
}
