package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/expensetracker/internal/domain"

	_ "modernc.org/sqlite"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer; serialize access instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLite) Insert(ctx context.Context, e domain.NewExpense) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO expenses (payee, amount, spent_on) VALUES (?, ?, ?)",
		e.Payee, e.Amount.String(), e.Date)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read expense id: %w", err)
	}
	return id, nil
}

func (s *SQLite) ListByDate(ctx context.Context, date string) ([]domain.StoredExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, payee, amount, spent_on FROM expenses WHERE spent_on = ? ORDER BY id",
		date)
	if err != nil {
		return nil, fmt.Errorf("query expenses on %s: %w", date, err)
	}
	defer rows.Close()

	expenses := []domain.StoredExpense{}
	for rows.Next() {
		var (
			e      domain.StoredExpense
			amount string
		)
		if err := rows.Scan(&e.ID, &e.Payee, &amount, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount of expense %d: %w", e.ID, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
