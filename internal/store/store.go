// Package store opens the core.Store backend named by a database URL.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/store/memstore"
	"github.com/JonMunkholm/helprobot/internal/store/pgstore"
	"github.com/JonMunkholm/helprobot/internal/store/sqlitestore"
)

// Options carries connection settings for the selected backend.
type Options struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Backend names the engine behind a database URL.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendMemory   Backend = "memory"
)

// BackendFor resolves the backend and its engine-specific location from url:
//
//	postgres://... | postgresql://...  -> PostgreSQL, the URL itself
//	sqlite://path  | file:path         -> SQLite, the file path
//	memory://                          -> in-memory
func BackendFor(url string) (Backend, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return BackendPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		return BackendSQLite, strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasPrefix(url, "file:"):
		return BackendSQLite, strings.TrimPrefix(url, "file:"), nil
	case strings.HasPrefix(url, "memory://"):
		return BackendMemory, "", nil
	default:
		return "", "", fmt.Errorf("unsupported database URL scheme: %q", redact(url))
	}
}

// Open connects to the backend named by opts.URL.
func Open(ctx context.Context, opts Options) (core.Store, Backend, error) {
	backend, location, err := BackendFor(opts.URL)
	if err != nil {
		return nil, "", err
	}

	switch backend {
	case BackendPostgres:
		s, err := pgstore.Open(ctx, location, pgstore.PoolOptions{
			MaxConns:        opts.MaxConns,
			MinConns:        opts.MinConns,
			MaxConnLifetime: opts.MaxConnLifetime,
			MaxConnIdleTime: opts.MaxConnIdleTime,
		})
		if err != nil {
			return nil, "", err
		}
		return s, backend, nil
	case BackendSQLite:
		s, err := sqlitestore.Open(ctx, location)
		if err != nil {
			return nil, "", err
		}
		return s, backend, nil
	default:
		return memstore.New(), backend, nil
	}
}

// redact keeps the scheme of a URL and drops the rest, which may hold credentials.
func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "..."
	}
	if len(url) > 8 {
		return url[:8] + "..."
	}
	return url
}
