// Package postgres stores the almanac document in PostgreSQL through gorm.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/lakealmanac/internal/database"
	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store keeps one named row of almanac_documents
type Store struct {
	db     *gorm.DB
	name   string
	logger *zap.SugaredLogger
}

// Open connects and ensures the almanac_documents table exists
func Open(ctx context.Context, connectionString, name string, logger *zap.SugaredLogger) (*Store, error) {
	db, err := database.CreateConnection(ctx, connectionString)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).AutoMigrate(&database.AlmanacDocument{}); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrating almanac_documents: %w", err)
	}
	return New(db, name, logger), nil
}

// New wraps an existing gorm handle
func New(db *gorm.DB, name string, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, name: name, logger: logger}
}

// Load returns the stored document, or an empty one
func (s *Store) Load(ctx context.Context) (*almanac.Document, error) {
	var row database.AlmanacDocument
	err := s.db.WithContext(ctx).Where("name = ?", s.name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Infow("no almanac found, starting empty", "name", s.name)
		return almanac.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading almanac %s: %w", s.name, err)
	}

	doc := almanac.NewDocument()
	if err := json.Unmarshal([]byte(row.Body), doc); err != nil {
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

	row := database.AlmanacDocument{Name: s.name, Body: string(body), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("saving almanac %s: %w", s.name, err)
	}

	s.logger.Infow("saved almanac", "name", s.name, "bytes", len(body))
	return nil
}

// Close closes the connection pool
func (s *Store) Close() error {
	return database.Close(s.db)
}
