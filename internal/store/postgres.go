package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/expensetracker/internal/domain"
)

type Postgres struct {
	Db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Postgres{Db: pool}, nil
}

func (s *Postgres) Close() error {
	s.Db.Close()
	return nil
}

// Insert stores a validated expense and returns the generated ID.
func (s *Postgres) Insert(ctx context.Context, e domain.NewExpense) (int64, error) {
	var id int64
	err := s.Db.QueryRow(ctx,
		"INSERT INTO expenses (payee, amount, spent_on) VALUES ($1, $2, $3) RETURNING id",
		e.Payee, e.Amount.String(), e.Date,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	return id, nil
}

// ListByDate retrieves every expense spent on date, oldest ID first.
func (s *Postgres) ListByDate(ctx context.Context, date string) ([]domain.StoredExpense, error) {
	// The column is typed; a key that is not a date can never match.
	if !domain.IsDateKey(date) {
		return []domain.StoredExpense{}, nil
	}

	rows, err := s.Db.Query(ctx,
		"SELECT id, payee, amount::text, to_char(spent_on, 'YYYY-MM-DD') FROM expenses WHERE spent_on = $1 ORDER BY id",
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
