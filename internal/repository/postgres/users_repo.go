package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smokwena/dispute-backend/internal/engine"
	"github.com/smokwena/dispute-backend/internal/models"
)

type usersRepo struct{ pool *pgxpool.Pool }

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, engine.ErrNotFound
	}
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, username, email, passwordHash string, roles []string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
INSERT INTO users (id, username, email, password_hash, roles)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, username, email, password_hash, roles, created_at, updated_at`,
		uuid.NewString(), username, email, passwordHash, roles))
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
SELECT id, username, email, password_hash, roles, created_at, updated_at
  FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
SELECT id, username, email, password_hash, roles, created_at, updated_at
  FROM users WHERE email=$1`, email))
}
