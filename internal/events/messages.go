package events

import (
	"context"
	"encoding/json"
	"time"
)

// ExpenseRecorded announces that an expense was persisted.
type ExpenseRecorded struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"`
	RecordedAt time.Time `json:"recorded_at"`
}

func NewExpenseRecorded(id int64, date string) ExpenseRecorded {
	return ExpenseRecorded{ID: id, Date: date, RecordedAt: time.Now().UTC()}
}

func (m ExpenseRecorded) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Publisher delivers ledger events to downstream consumers.
type Publisher interface {
	PublishExpenseRecorded(ctx context.Context, msg ExpenseRecorded) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishExpenseRecorded(context.Context, ExpenseRecorded) error { return nil }
func (NopPublisher) Close() error                                                 { return nil }
