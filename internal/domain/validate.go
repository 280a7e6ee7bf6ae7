package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout of a date key.
const DateLayout = "2006-01-02"

// Amounts are stored as NUMERIC(12,2).
const amountScale = 2

var maxAmount = decimal.RequireFromString("9999999999.99")

// ValidationError describes the first problem found in an Expense.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Invalid expense: `%s` %s", e.Field, e.Reason)
}

// IsDateKey reports whether s is a YYYY-MM-DD calendar date. Year 0000
// parses but has no calendar date in Postgres, so it is refused.
func IsDateKey(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Year() >= 1
}

// Validate checks payee, amount and date, in that order, and returns the
// expense in its storable form. The returned error is always a *ValidationError.
func Validate(e Expense) (NewExpense, error) {
	var out NewExpense

	payee, err := requiredString(e, "payee")
	if err != nil {
		return out, err
	}
	out.Payee = payee

	raw, ok := e["amount"]
	if !ok || raw == nil {
		return out, &ValidationError{Field: "amount", Reason: "is required"}
	}
	amount, ok := toDecimal(raw)
	if !ok {
		return out, &ValidationError{Field: "amount", Reason: "must be a number"}
	}
	if !amountInRange(amount) {
		return out, &ValidationError{Field: "amount", Reason: "is out of range"}
	}
	out.Amount = amount

	date, err := requiredString(e, "date")
	if err != nil {
		return out, err
	}
	if !IsDateKey(date) {
		return out, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	out.Date = date

	return out, nil
}

func requiredString(e Expense, field string) (string, error) {
	raw, ok := e[field]
	if !ok || raw == nil {
		return "", &ValidationError{Field: field, Reason: "is required"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &ValidationError{Field: field, Reason: "must be a string"}
	}
	if strings.TrimSpace(s) == "" {
		return "", &ValidationError{Field: field, Reason: "is required"}
	}
	return s, nil
}

// amountInRange bounds the amount to what NUMERIC(12,2) holds. The exponent is
// checked first so huge exponents are never expanded by rounding.
func amountInRange(d decimal.Decimal) bool {
	if exp := d.Exponent(); exp < -20 || exp > 20 {
		return false
	}
	if d.Abs().GreaterThan(maxAmount) {
		return false
	}
	return d.Equal(d.Truncate(amountScale))
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case decimal.Decimal:
		return n, true
	default:
		return decimal.Decimal{}, false
	}
}
