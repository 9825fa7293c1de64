package backend

import (
	"context"
	"fmt"

	applog "juros/internal/log"
	"juros/internal/rates"
	"juros/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend builds the configured catalog and wraps it in a cache when
// a TTL is set.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		res = f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheTTL > 0 {
		res.Catalog = rates.NewCachedCatalog(res.Catalog, config.CacheTTL, f.logger)
		f.logger.Info("Reference rate cache enabled", "ttl", config.CacheTTL.String())
	}
	return res, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		repo.Close()
		return nil, err
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "reference_rates", n)

	return &BackendResult{
		Catalog: repo,
		Ping:    repo.Ping,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() *BackendResult {
	f.logger.Info("Initialized memory backend")
	return &BackendResult{Catalog: rates.NewMemoryCatalog()}
}
