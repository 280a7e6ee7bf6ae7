package store

import (
	"context"
	"sync"

	"github.com/punchamoorthee/expensetracker/internal/domain"
)

// Memory keeps expenses in process. IDs start at 1 and only grow.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	expenses []domain.StoredExpense
}

func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) Insert(_ context.Context, e domain.NewExpense) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.expenses = append(m.expenses, domain.StoredExpense{
		ID:     id,
		Payee:  e.Payee,
		Amount: e.Amount,
		Date:   e.Date,
	})
	return id, nil
}

func (m *Memory) ListByDate(_ context.Context, date string) ([]domain.StoredExpense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.StoredExpense{}
	for _, e := range m.expenses {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
