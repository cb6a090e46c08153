package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smokwena/dispute-backend/internal/engine"
	"github.com/smokwena/dispute-backend/internal/models"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

const txColumns = `id, user_id, reference, amount, description, transaction_date,
       type, status, merchant_name, category, currency, created_at, updated_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var tx models.Transaction
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Reference, &tx.Amount, &tx.Description,
		&tx.TransactionDate, &tx.Type, &tx.Status, &tx.MerchantName, &tx.Category,
		&tx.Currency, &tx.CreatedAt, &tx.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transaction{}, engine.ErrNotFound
	}
	return tx, err
}

func (r *transactionsRepo) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	const q = `
INSERT INTO transactions (id, user_id, reference, amount, description,
  transaction_date, type, status, merchant_name, category, currency)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING ` + txColumns
	return scanTransaction(r.pool.QueryRow(ctx, q,
		tx.ID, tx.UserID, tx.Reference, tx.Amount, tx.Description,
		tx.TransactionDate, tx.Type, tx.Status, tx.MerchantName, tx.Category, tx.Currency))
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id=$1`, id))
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+txColumns+`
		   FROM transactions
		  WHERE user_id=$1
		  ORDER BY transaction_date DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *transactionsRepo) Search(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, cond+"$"+strconv.Itoa(len(args)))
	}
	if f.UserID != "" {
		add("user_id=", f.UserID)
	}
	if f.Status != "" {
		add("status=", f.Status)
	}
	if f.Type != "" {
		add("type=", f.Type)
	}
	if f.StartDate != nil {
		add("transaction_date>=", *f.StartDate)
	}
	if f.EndDate != nil {
		add("transaction_date<=", *f.EndDate)
	}
	if f.MinAmount != nil {
		add("amount>=", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		add("amount<=", *f.MaxAmount)
	}
	q := `SELECT ` + txColumns + ` FROM transactions`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY transaction_date DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *transactionsRepo) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return fmt.Errorf("transactions: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	var out []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
