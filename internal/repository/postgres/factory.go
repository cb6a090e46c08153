package postgres

import (
	repo "github.com/smokwena/dispute-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Transactions  repo.Transactions
	Disputes      repo.Disputes
	DisputeEvents repo.DisputeEvents
	Users         repo.Users
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Transactions:  &transactionsRepo{pool},
		Disputes:      &disputesRepo{pool},
		DisputeEvents: &disputeEventsRepo{pool},
		Users:         &usersRepo{pool},
	}
}
