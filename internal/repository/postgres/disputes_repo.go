package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smokwena/dispute-backend/internal/engine"
	"github.com/smokwena/dispute-backend/internal/models"
)

type disputesRepo struct{ pool *pgxpool.Pool }

const disputeColumns = `d.id, d.transaction_id, d.user_id, d.reason, d.status,
       d.priority, d.assigned_to, d.resolution_notes, d.created_at, d.updated_at, d.resolved_at,
       t.id, t.user_id, t.reference, t.amount, t.description, t.transaction_date,
       t.type, t.status, t.merchant_name, t.category, t.currency, t.created_at, t.updated_at`

const disputeFrom = ` FROM disputes d JOIN transactions t ON t.id = d.transaction_id`

func scanDispute(row pgx.Row) (models.Dispute, error) {
	var (
		d  models.Dispute
		tx models.Transaction
	)
	err := row.Scan(&d.ID, &d.TransactionID, &d.UserID, &d.Reason, &d.Status,
		&d.Priority, &d.AssignedTo, &d.ResolutionNotes, &d.CreatedAt, &d.UpdatedAt, &d.ResolvedAt,
		&tx.ID, &tx.UserID, &tx.Reference, &tx.Amount, &tx.Description, &tx.TransactionDate,
		&tx.Type, &tx.Status, &tx.MerchantName, &tx.Category, &tx.Currency, &tx.CreatedAt, &tx.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Dispute{}, engine.ErrNotFound
	}
	if err != nil {
		return models.Dispute{}, err
	}
	d.Transaction = &tx
	return d, nil
}

func (r *disputesRepo) Create(ctx context.Context, d models.Dispute, ev models.DisputeEvent) (models.Dispute, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	ptx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return models.Dispute{}, fmt.Errorf("disputes: begin create: %w", err)
	}
	defer ptx.Rollback(ctx)

	if _, err := ptx.Exec(ctx, `
INSERT INTO disputes (id, transaction_id, user_id, reason, status, priority, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.TransactionID, d.UserID, d.Reason, d.Status, d.Priority, d.CreatedAt, d.UpdatedAt); err != nil {
		return models.Dispute{}, fmt.Errorf("disputes: insert: %w", err)
	}

	ev.DisputeID = d.ID
	if err := insertEvent(ctx, ptx, ev); err != nil {
		return models.Dispute{}, err
	}
	if err := ptx.Commit(ctx); err != nil {
		return models.Dispute{}, fmt.Errorf("disputes: commit create: %w", err)
	}
	return r.GetByID(ctx, d.ID)
}

func (r *disputesRepo) GetByID(ctx context.Context, id string) (models.Dispute, error) {
	return scanDispute(r.pool.QueryRow(ctx,
		`SELECT `+disputeColumns+disputeFrom+` WHERE d.id=$1`, id))
}

func (r *disputesRepo) GetActiveByTransaction(ctx context.Context, transactionID string) (models.Dispute, error) {
	return scanDispute(r.pool.QueryRow(ctx,
		`SELECT `+disputeColumns+disputeFrom+`
		  WHERE d.transaction_id=$1
		    AND d.status NOT IN ('RESOLVED','REJECTED','CANCELLED')
		  ORDER BY d.created_at DESC
		  LIMIT 1`, transactionID))
}

func (r *disputesRepo) ListByUser(ctx context.Context, userID string) ([]models.Dispute, error) {
	return r.list(ctx,
		`SELECT `+disputeColumns+disputeFrom+` WHERE d.user_id=$1 ORDER BY d.created_at DESC`, userID)
}

func (r *disputesRepo) ListAssignedTo(ctx context.Context, adminID string) ([]models.Dispute, error) {
	return r.list(ctx,
		`SELECT `+disputeColumns+disputeFrom+` WHERE d.assigned_to=$1 ORDER BY d.created_at DESC`, adminID)
}

func (r *disputesRepo) ListAll(ctx context.Context) ([]models.Dispute, error) {
	return r.list(ctx,
		`SELECT `+disputeColumns+disputeFrom+` ORDER BY d.created_at DESC`)
}

func (r *disputesRepo) List(ctx context.Context, f models.DisputeFilter) (models.DisputePage, error) {
	if f.Size <= 0 {
		f.Size = 20
	}
	if f.Page < 0 {
		f.Page = 0
	}

	where, args := "", []any{}
	if f.Status != "" {
		where = ` WHERE d.status=$1`
		args = append(args, f.Status)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM disputes d`+where, args...).Scan(&total); err != nil {
		return models.DisputePage{}, fmt.Errorf("disputes: count: %w", err)
	}

	q := `SELECT ` + disputeColumns + disputeFrom + where +
		fmt.Sprintf(` ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Size, f.Page*f.Size)

	content, err := r.list(ctx, q, args...)
	if err != nil {
		return models.DisputePage{}, err
	}

	totalPages := int((total + int64(f.Size) - 1) / int64(f.Size))
	return models.DisputePage{
		Content:       content,
		Page:          f.Page,
		TotalPages:    totalPages,
		TotalElements: total,
	}, nil
}

// UpdateGuarded persists a transitioned dispute only while the stored status
// still matches expected, and appends the audit event in the same
// transaction. Status, timestamps, notes and the event commit together or
// not at all.
func (r *disputesRepo) UpdateGuarded(ctx context.Context, d models.Dispute, expected models.DisputeStatus, ev models.DisputeEvent) (models.Dispute, error) {
	ptx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return models.Dispute{}, fmt.Errorf("disputes: begin update: %w", err)
	}
	defer ptx.Rollback(ctx)

	tag, err := ptx.Exec(ctx, `
UPDATE disputes
   SET status=$1, updated_at=$2, resolved_at=$3, resolution_notes=$4
 WHERE id=$5 AND status=$6`,
		d.Status, d.UpdatedAt, d.ResolvedAt, d.ResolutionNotes, d.ID, expected)
	if err != nil {
		return models.Dispute{}, fmt.Errorf("disputes: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Tell a vanished dispute apart from a lost race.
		var exists bool
		if err := ptx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM disputes WHERE id=$1)`, d.ID).Scan(&exists); err != nil {
			return models.Dispute{}, err
		}
		if !exists {
			return models.Dispute{}, engine.ErrNotFound
		}
		return models.Dispute{}, engine.ErrStaleState
	}

	if err := insertEvent(ctx, ptx, ev); err != nil {
		return models.Dispute{}, err
	}
	if err := ptx.Commit(ctx); err != nil {
		return models.Dispute{}, fmt.Errorf("disputes: commit update: %w", err)
	}
	return r.GetByID(ctx, d.ID)
}

func (r *disputesRepo) UpdateAssignment(ctx context.Context, id, adminID string) (models.Dispute, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE disputes SET assigned_to=$2, updated_at=now() WHERE id=$1`, id, adminID)
	if err != nil {
		return models.Dispute{}, fmt.Errorf("disputes: assign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Dispute{}, engine.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *disputesRepo) list(ctx context.Context, q string, args ...any) ([]models.Dispute, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
