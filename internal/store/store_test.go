package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchamoorthee/expensetracker/internal/domain"
)

func expense(payee, amount, date string) domain.NewExpense {
	return domain.NewExpense{Payee: payee, Amount: decimal.RequireFromString(amount), Date: date}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	empty, err := s.ListByDate(ctx, "2017-06-10")
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	coffee, err := s.Insert(ctx, expense("Starbucks", "6.50", "2017-06-10"))
	require.NoError(t, err)
	zoo, err := s.Insert(ctx, expense("Zoo", "16.50", "2017-06-10"))
	require.NoError(t, err)
	_, err = s.Insert(ctx, expense("Whole Foods", "95.20", "2017-06-11"))
	require.NoError(t, err)
	assert.Greater(t, zoo, coffee)

	got, err := s.ListByDate(ctx, "2017-06-10")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, coffee, got[0].ID)
	assert.Equal(t, "Starbucks", got[0].Payee)
	assert.True(t, decimal.RequireFromString("6.5").Equal(got[0].Amount))
	assert.Equal(t, "2017-06-10", got[0].Date)
	assert.Equal(t, zoo, got[1].ID)

	for _, key := range []string{"not-a-date", "0000-06-10"} {
		none, err := s.ListByDate(ctx, key)
		require.NoError(t, err, key)
		assert.Empty(t, none, key)
	}
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryConcurrentInsertsGetUniqueIDs(t *testing.T) {
	m := NewMemory()
	const n = 100

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := m.Insert(context.Background(), expense("Zoo", "1", "2017-06-10"))
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")
	require.NoError(t, Migrate(BackendSQLite, path))
	// Re-running is a no-op.
	require.NoError(t, Migrate(BackendSQLite, path))

	s, err := NewSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DB_SOURCE")
	if dsn == "" {
		t.Skip("TEST_DB_SOURCE not set")
	}
	require.NoError(t, Migrate(BackendPostgres, dsn))

	s, err := NewPostgres(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.Db.Exec(context.Background(), "TRUNCATE TABLE expenses RESTART IDENTITY")
	require.NoError(t, err)

	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(context.Background(), Backend("redis"), "")
	assert.ErrorIs(t, err, ErrUnknownBackend)

	assert.ErrorIs(t, Migrate(Backend("redis"), ""), ErrUnknownBackend)
	assert.NoError(t, Migrate(BackendMemory, ""))
}
