package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/smokwena/dispute-backend/internal/api/httpx"
	"github.com/smokwena/dispute-backend/internal/auth"
	"github.com/smokwena/dispute-backend/internal/engine"
)

type ctxKey struct{}

var identityKey ctxKey

// Identity carries the authenticated caller through the request context.
func Identity(ctx context.Context) (engine.Actor, bool) {
	v, ok := ctx.Value(identityKey).(engine.Actor)
	return v, ok
}

func WithIdentity(ctx context.Context, a engine.Actor) context.Context {
	return context.WithValue(ctx, identityKey, a)
}

type AuthMiddleware struct {
	TM *auth.TokenManager
}

func NewAuthMiddleware(tm *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{TM: tm}
}

func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "missing_token", "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		claims, err := m.TM.ParseAccess(token)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid access token", nil)
			return
		}
		ctx := WithIdentity(r.Context(), engine.Actor{UserID: claims.UserID, Roles: claims.Roles})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
