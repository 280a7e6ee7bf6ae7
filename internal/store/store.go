package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/punchamoorthee/expensetracker/internal/domain"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown data backend")

// Store persists expenses. Implementations are safe for concurrent use.
type Store interface {
	// Insert persists e and returns its assigned ID.
	Insert(ctx context.Context, e domain.NewExpense) (int64, error)
	// ListByDate returns the expenses whose date equals the given key, ordered by ID.
	ListByDate(ctx context.Context, date string) ([]domain.StoredExpense, error)
	Close() error
}

// Open builds the Store for backend. dsn is the Postgres connection string or
// the SQLite file path; it is ignored for the memory backend.
func Open(ctx context.Context, backend Backend, dsn string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendPostgres:
		return NewPostgres(ctx, dsn)
	case BackendSQLite:
		return NewSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
