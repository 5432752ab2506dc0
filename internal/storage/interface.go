// Package storage defines the almanac document store and selects a backend.
package storage

import (
	"context"

	"github.com/chrissnell/lakealmanac/pkg/almanac"
)

// AlmanacStore persists the almanac document as a whole. Load returns an
// empty document when nothing has been saved yet.
type AlmanacStore interface {
	Load(ctx context.Context) (*almanac.Document, error)
	Save(ctx context.Context, doc *almanac.Document) error
	Close() error
}
