package backend

import (
	"context"
	"fmt"

	"cashbook/internal/kv/memory"
	"cashbook/internal/log"
	"cashbook/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	entries, err := repo.Count(ctx)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("failed to read SQLite repository: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized SQLite backend",
		log.FieldBackend, SQLiteBackend,
		log.FieldPath, config.SQLiteDBPath,
		log.FieldEntries, entries)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := memory.NewFromFile(config.MemorySeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized memory backend",
		log.FieldBackend, MemoryBackend,
		log.FieldPath, config.MemorySeedFile)

	return &BackendResult{Store: store, Cleanup: store.Close}, nil
}
