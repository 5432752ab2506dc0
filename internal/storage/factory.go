package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrissnell/lakealmanac/internal/storage/file"
	"github.com/chrissnell/lakealmanac/internal/storage/postgres"
	"github.com/chrissnell/lakealmanac/internal/storage/sqlite"
	"github.com/chrissnell/lakealmanac/pkg/config"
	"go.uber.org/zap"
)

// ErrUnknownBackend is returned for an unsupported storage.backend.
var ErrUnknownBackend = errors.New("unknown storage backend")

// New opens the almanac store selected by cfg.Storage.
func New(ctx context.Context, cfg *config.ConfigData, logger *zap.SugaredLogger) (AlmanacStore, error) {
	switch cfg.Storage.Backend {
	case "", "file":
		return file.New(cfg.Storage.Path, logger), nil
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.Storage.Path, cfg.Storage.DocumentName, logger)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite almanac store: %w", err)
		}
		return store, nil
	case "postgres":
		store, err := postgres.Open(ctx, cfg.PostgresConnectionString(), cfg.Storage.DocumentName, logger)
		if err != nil {
			return nil, fmt.Errorf("opening postgres almanac store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Storage.Backend)
	}
}
