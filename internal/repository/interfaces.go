package repository

import (
	"context"

	"github.com/smokwena/dispute-backend/internal/models"
)

// The registry boundary. Absent rows surface as engine.ErrNotFound; the
// guarded status update surfaces engine.ErrStaleState on an expectation
// mismatch.

type Transactions interface {
	Create(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
	Search(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error
}

type Disputes interface {
	// Create persists the dispute and its CREATED event in one transaction.
	Create(ctx context.Context, d models.Dispute, ev models.DisputeEvent) (models.Dispute, error)
	GetByID(ctx context.Context, id string) (models.Dispute, error)
	// GetActiveByTransaction returns the non-terminal dispute for a
	// transaction, or engine.ErrNotFound when none exists.
	GetActiveByTransaction(ctx context.Context, transactionID string) (models.Dispute, error)
	ListByUser(ctx context.Context, userID string) ([]models.Dispute, error)
	ListAssignedTo(ctx context.Context, adminID string) ([]models.Dispute, error)
	ListAll(ctx context.Context) ([]models.Dispute, error)
	List(ctx context.Context, f models.DisputeFilter) (models.DisputePage, error)
	// UpdateGuarded writes the transitioned dispute and appends ev in one
	// transaction, failing with engine.ErrStaleState unless the stored
	// status still equals expected.
	UpdateGuarded(ctx context.Context, d models.Dispute, expected models.DisputeStatus, ev models.DisputeEvent) (models.Dispute, error)
	UpdateAssignment(ctx context.Context, id, adminID string) (models.Dispute, error)
}

type DisputeEvents interface {
	Append(ctx context.Context, ev models.DisputeEvent) (models.DisputeEvent, error)
	// ListByDispute returns events newest first.
	ListByDispute(ctx context.Context, disputeID string) ([]models.DisputeEvent, error)
}

type Users interface {
	Create(ctx context.Context, username, email, passwordHash string, roles []string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}
