package services

import (
	"context"
	"errors"
	"time"

	"github.com/smokwena/dispute-backend/internal/engine"
	"github.com/smokwena/dispute-backend/internal/models"
	repo "github.com/smokwena/dispute-backend/internal/repository"
)

type TransactionService struct {
	trx      repo.Transactions
	disputes repo.Disputes
	now      func() time.Time
}

func NewTransactionService(t repo.Transactions, d repo.Disputes) *TransactionService {
	return &TransactionService{trx: t, disputes: d, now: time.Now}
}

// Get fetches one transaction. Customers may only read their own.
func (s *TransactionService) Get(ctx context.Context, id string, actor engine.Actor) (models.Transaction, error) {
	tx, err := s.trx.GetByID(ctx, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if !actor.IsAdmin() && tx.UserID != actor.UserID {
		return models.Transaction{}, engine.ErrUnauthorized
	}
	return tx, nil
}

func (s *TransactionService) ListForUser(ctx context.Context, actor engine.Actor, limit, offset int) ([]models.Transaction, error) {
	return s.trx.ListByUser(ctx, actor.UserID, limit, offset)
}

func (s *TransactionService) Search(ctx context.Context, f models.TransactionFilter, actor engine.Actor) ([]models.Transaction, error) {
	if !actor.IsAdmin() {
		f.UserID = actor.UserID
	}
	return s.trx.Search(ctx, f)
}

// Disputable returns the caller's transactions that can still accept a new
// dispute.
func (s *TransactionService) Disputable(ctx context.Context, actor engine.Actor) ([]models.Transaction, error) {
	txs, err := s.trx.ListByUser(ctx, actor.UserID, 500, 0)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var out []models.Transaction
	for _, tx := range txs {
		var existing *models.Dispute
		if active, err := s.disputes.GetActiveByTransaction(ctx, tx.ID); err == nil {
			existing = &active
		} else if !errors.Is(err, engine.ErrNotFound) {
			return nil, err
		}
		if engine.IsDisputable(tx, existing, now) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Summary aggregates the caller's transactions for the account view.
func (s *TransactionService) Summary(ctx context.Context, actor engine.Actor) (engine.TransactionSummary, error) {
	txs, err := s.trx.ListByUser(ctx, actor.UserID, 500, 0)
	if err != nil {
		return engine.TransactionSummary{}, err
	}
	return engine.SummarizeTransactions(txs), nil
}
