package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/smokwena/dispute-backend/internal/auth"
	"github.com/smokwena/dispute-backend/internal/models"
	repo "github.com/smokwena/dispute-backend/internal/repository"
	"github.com/smokwena/dispute-backend/internal/session"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	users      repo.Users
	tm         *auth.TokenManager
	sessions   session.Store
	sessionTTL time.Duration
}

func NewUserService(u repo.Users, tm *auth.TokenManager, sessions session.Store, sessionTTL time.Duration) *UserService {
	return &UserService{users: u, tm: tm, sessions: sessions, sessionTTL: sessionTTL}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	u := models.User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Roles:    []string{models.RoleCustomer},
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return s.users.Create(ctx, u.Username, u.Email, hash, u.Roles)
}

type TokenPair struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         models.User `json:"user"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, refresh, exp, err := s.tm.GeneratePair(u.ID, u.Roles)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.sessions.Save(ctx, u.ID, session.Session{
		UserID:       u.ID,
		Roles:        u.Roles,
		RefreshToken: refresh,
		IssuedAt:     time.Now(),
	}, s.sessionTTL); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp, User: u}, nil
}

// Refresh exchanges a valid refresh token for a new pair, provided the
// server-side session still exists.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tm.ParseRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	sess, err := s.sessions.Load(ctx, claims.UserID)
	if err != nil || sess.RefreshToken != refreshToken {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, refresh, exp, err := s.tm.GeneratePair(u.ID, u.Roles)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.sessions.Save(ctx, u.ID, session.Session{
		UserID:       u.ID,
		Roles:        u.Roles,
		RefreshToken: refresh,
		IssuedAt:     time.Now(),
	}, s.sessionTTL); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp, User: u}, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Clear(ctx, userID)
}
