package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Expense is the client-supplied record of a financial transaction.
// The HTTP layer does not interpret its fields; the ledger decides what is valid.
type Expense map[string]any

// RecordResult is the outcome of a single attempt to record an Expense.
// ExpenseID carries no meaning when Success is false.
type RecordResult struct {
	Success      bool
	ExpenseID    int64
	ErrorMessage string
}

// Recorded reports an accepted write.
func Recorded(id int64) RecordResult {
	return RecordResult{Success: true, ExpenseID: id}
}

// Rejected reports a write the ledger refused, with a message fit for the client.
func Rejected(id int64, msg string) RecordResult {
	return RecordResult{Success: false, ExpenseID: id, ErrorMessage: msg}
}

// NewExpense is a validated expense ready to be persisted.
type NewExpense struct {
	Payee  string
	Amount decimal.Decimal
	Date   string // YYYY-MM-DD
}

// StoredExpense is an expense as it was persisted, with its assigned ID.
type StoredExpense struct {
	ID     int64
	Payee  string
	Amount decimal.Decimal
	Date   string
}

// MarshalJSON renders the amount as a JSON number rather than decimal's quoted string.
func (e StoredExpense) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     int64       `json:"id"`
		Payee  string      `json:"payee"`
		Amount json.Number `json:"amount"`
		Date   string      `json:"date"`
	}{
		ID:     e.ID,
		Payee:  e.Payee,
		Amount: json.Number(e.Amount.String()),
		Date:   e.Date,
	})
}
