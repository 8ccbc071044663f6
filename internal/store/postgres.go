package store

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tomaszg/debtcrusher/internal/domain"
)

// Store is the remote debt store backed by Postgres.
type Store struct {
	Db *pgxpool.Pool
}

func NewStore(connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{Db: pool}, nil
}

func (s *Store) Close() {
	s.Db.Close()
}

// LoadDebts retrieves every debt ordered by its advisory priority.
func (s *Store) LoadDebts(ctx context.Context) ([]domain.Debt, error) {
	rows, err := s.Db.Query(ctx,
		`SELECT id, name, category, initial_amount::text, current_balance::text,
		        rate::text, installment::text, priority, note, created_at
		 FROM debts ORDER BY priority, created_at`)
	if err != nil {
		return nil, fmt.Errorf("load debts: %w", err)
	}
	defer rows.Close()

	var debts []domain.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			log.Printf("Error scanning debt: %v", err)
			continue
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// LoadPayments retrieves the most recent payments, newest first. A limit
// of zero or less means no limit.
func (s *Store) LoadPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	q := `SELECT id, debt_id, amount::text, paid_at FROM payments ORDER BY paid_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.Db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var amount string
		if err := rows.Scan(&p.ID, &p.DebtID, &amount, &p.PaidAt); err != nil {
			log.Printf("Error scanning payment: %v", err)
			continue
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			log.Printf("Error parsing payment amount: %v", err)
			continue
		}
		p.Amount = parsed
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SaveDebt inserts or replaces the debt record.
func (s *Store) SaveDebt(ctx context.Context, d domain.Debt) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO debts (id, name, category, initial_amount, current_balance,
		                    rate, installment, priority, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   category = EXCLUDED.category,
		   current_balance = EXCLUDED.current_balance,
		   rate = EXCLUDED.rate,
		   installment = EXCLUDED.installment,
		   priority = EXCLUDED.priority,
		   note = EXCLUDED.note`,
		d.ID, d.Name, string(d.Category),
		d.InitialAmount.String(), d.CurrentBalance.String(),
		decimalOrNil(d.Rate), decimalOrNil(d.Installment),
		d.Priority, d.Note, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("save debt: %w", err)
	}
	return nil
}

// DeleteDebt removes the debt and its payment history.
func (s *Store) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	tx, err := s.Db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE debt_id = $1`, id); err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM debts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return tx.Commit(ctx)
}

// RecordPayment appends one payment to the history.
func (s *Store) RecordPayment(ctx context.Context, p domain.Payment) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO payments (id, debt_id, amount, paid_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.DebtID, p.Amount.String(), p.PaidAt)
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	return nil
}

// LoadJar reads the single savings jar row, returning an empty jar when
// none exists yet.
func (s *Store) LoadJar(ctx context.Context) (domain.Jar, error) {
	var balance string
	var used bool
	err := s.Db.QueryRow(ctx,
		`SELECT balance::text, used FROM savings_jar WHERE id = 1`).Scan(&balance, &used)
	if err == pgx.ErrNoRows {
		return domain.Jar{Balance: decimal.Zero}, nil
	}
	if err != nil {
		return domain.Jar{}, fmt.Errorf("load jar: %w", err)
	}
	b, err := decimal.NewFromString(balance)
	if err != nil {
		return domain.Jar{}, fmt.Errorf("parse jar balance: %w", err)
	}
	return domain.Jar{Balance: b, Used: used}, nil
}

// SaveJar upserts the savings jar row.
func (s *Store) SaveJar(ctx context.Context, jar domain.Jar) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO savings_jar (id, balance, used) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance, used = EXCLUDED.used`,
		jar.Balance.String(), jar.Used)
	if err != nil {
		return fmt.Errorf("save jar: %w", err)
	}
	return nil
}

func scanDebt(rows pgx.Rows) (domain.Debt, error) {
	var d domain.Debt
	var initial, balance string
	var rate, inst *string
	if err := rows.Scan(&d.ID, &d.Name, (*string)(&d.Category), &initial, &balance,
		&rate, &inst, &d.Priority, &d.Note, &d.CreatedAt); err != nil {
		return domain.Debt{}, err
	}
	var err error
	if d.InitialAmount, err = decimal.NewFromString(initial); err != nil {
		return domain.Debt{}, err
	}
	if d.CurrentBalance, err = decimal.NewFromString(balance); err != nil {
		return domain.Debt{}, err
	}
	if rate != nil {
		r, err := decimal.NewFromString(*rate)
		if err != nil {
			return domain.Debt{}, err
		}
		d.Rate = &r
	}
	if inst != nil {
		i, err := decimal.NewFromString(*inst)
		if err != nil {
			return domain.Debt{}, err
		}
		d.Installment = &i
	}
	return d, nil
}

func decimalOrNil(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
