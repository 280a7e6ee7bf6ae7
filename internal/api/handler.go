package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/punchamoorthee/expensetracker/internal/domain"
)

const maxBodyBytes = 1 << 20

// Ledger records expenses and looks them up by date.
// Implementations must be safe for concurrent use.
type Ledger interface {
	Record(ctx context.Context, expense domain.Expense) (domain.RecordResult, error)
	// ExpensesOn returns a JSON array of the expenses dated date, possibly empty.
	ExpensesOn(ctx context.Context, date string) (json.RawMessage, error)
}

// Handler translates HTTP requests into Ledger calls. It holds no per-request state.
type Handler struct {
	ledger Ledger
	log    *logrus.Logger
}

func NewHandler(l Ledger, logger *logrus.Logger) *Handler {
	return &Handler{ledger: l, log: logger}
}

// RecordExpense handles POST /expenses.
func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) error {
	expense, err := decodeExpense(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Malformed JSON body")
		return nil
	}

	result, err := h.ledger.Record(r.Context(), expense)
	if err != nil {
		return fmt.Errorf("record expense: %w", err)
	}

	if !result.Success {
		respondError(w, http.StatusUnprocessableEntity, result.ErrorMessage)
		return nil
	}
	respondJSON(w, http.StatusOK, map[string]int64{"expense_id": result.ExpenseID})
	return nil
}

// ExpensesOn handles GET /expenses/{date}. The date is handed to the ledger as written.
func (h *Handler) ExpensesOn(w http.ResponseWriter, r *http.Request) error {
	date := mux.Vars(r)["date"]

	raw, err := h.ledger.ExpensesOn(r.Context(), date)
	if err != nil {
		return fmt.Errorf("expenses on %q: %w", date, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("decode ledger expenses on %q: %w", date, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}

	respondJSON(w, http.StatusOK, records)
	return nil
}

// decodeExpense reads exactly one JSON object from body.
func decodeExpense(body io.Reader) (domain.Expense, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var expense domain.Expense
	if err := dec.Decode(&expense); err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, fmt.Errorf("expense body is null")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after expense object")
	}
	return expense, nil
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
