package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Session is the server-side record of an authenticated user. The engine
// never reads or writes it; only the access gate path does.
type Session struct {
	UserID       string    `json:"user_id"`
	Roles        []string  `json:"roles"`
	RefreshToken string    `json:"refresh_token"`
	IssuedAt     time.Time `json:"issued_at"`
}

// Store is the session lifecycle injected into the auth handlers.
type Store interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, id string, s Session, ttl time.Duration) error
	Clear(ctx context.Context, id string) error
}
