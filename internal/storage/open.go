package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/groupfund/groupfund/internal/repository"
	"github.com/groupfund/groupfund/internal/repository/sqlite"
)

// Supported backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

var (
	_ Store = (*repository.Repository)(nil)
	_ Store = (*sqlite.Store)(nil)
)

// Options selects and configures the storage engine.
type Options struct {
	Backend     string
	DatabaseURL string
	SQLitePath  string
	// AutoMigrate applies PostgreSQL migrations before connecting. The
	// SQLite engine always migrates on open.
	AutoMigrate bool
}

// Open connects to the configured engine.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendPostgres:
		if opts.AutoMigrate {
			if err := repository.MigrateUp(opts.DatabaseURL); err != nil {
				return nil, fmt.Errorf("failed to migrate postgres: %w", err)
			}
			slog.Info("migrations_applied", "backend", opts.Backend)
		}
		repo, err := repository.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case BackendSQLite:
		store, err := sqlite.Open(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// MigrateUp applies pending migrations for the configured engine.
func MigrateUp(opts Options) error {
	switch opts.Backend {
	case BackendPostgres:
		return repository.MigrateUp(opts.DatabaseURL)
	case BackendSQLite:
		return sqlite.MigrateUp(opts.SQLitePath)
	default:
		return fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// MigrateDown rolls back all migrations for the configured engine.
func MigrateDown(opts Options) error {
	switch opts.Backend {
	case BackendPostgres:
		return repository.MigrateDown(opts.DatabaseURL)
	case BackendSQLite:
		return sqlite.MigrateDown(opts.SQLitePath)
	default:
		return fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
