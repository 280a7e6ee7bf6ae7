package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/punchamoorthee/expensetracker/internal/domain"
	"github.com/punchamoorthee/expensetracker/internal/events"
	"github.com/punchamoorthee/expensetracker/internal/store"
)

// ExpenseLedger validates and persists expenses and answers date lookups.
type ExpenseLedger struct {
	store  store.Store
	events events.Publisher
	log    *logrus.Logger
}

func NewExpenseLedger(s store.Store, p events.Publisher, logger *logrus.Logger) *ExpenseLedger {
	if p == nil {
		p = events.NopPublisher{}
	}
	return &ExpenseLedger{store: s, events: p, log: logger}
}

// Record validates e and stores it. A validation failure is a rejected result,
// not an error; errors are reserved for the store being unavailable.
func (l *ExpenseLedger) Record(ctx context.Context, e domain.Expense) (domain.RecordResult, error) {
	expense, err := domain.Validate(e)
	if err != nil {
		return domain.Rejected(0, err.Error()), nil
	}

	id, err := l.store.Insert(ctx, expense)
	if err != nil {
		return domain.RecordResult{}, fmt.Errorf("record expense: %w", err)
	}

	// The row is committed; a lost event must not turn the write into a failure.
	if err := l.events.PublishExpenseRecorded(ctx, events.NewExpenseRecorded(id, expense.Date)); err != nil {
		l.log.WithError(err).WithField("expense_id", id).Warn("failed to publish expense recorded event")
	}

	l.log.WithFields(logrus.Fields{
		"expense_id": id,
		"payee":      expense.Payee,
		"amount":     expense.Amount.String(),
		"date":       expense.Date,
	}).Info("expense recorded")

	return domain.Recorded(id), nil
}

// ExpensesOn returns the JSON array of expenses dated date, ordered by ID.
func (l *ExpenseLedger) ExpensesOn(ctx context.Context, date string) (json.RawMessage, error) {
	expenses, err := l.store.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list expenses on %q: %w", date, err)
	}
	if expenses == nil {
		expenses = []domain.StoredExpense{}
	}
	return json.Marshal(expenses)
}
