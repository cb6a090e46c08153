package middleware

import (
	"net/http"

	"github.com/smokwena/dispute-backend/internal/api/httpx"
)

// RequireRoles denies the request unless the caller's role set intersects
// the required set. Denials never reach the handler or the engine.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	required := map[string]struct{}{}
	for _, r := range roles {
		required[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := Identity(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required", nil)
				return
			}
			for _, have := range actor.Roles {
				if _, ok := required[have]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "insufficient role", nil)
		})
	}
}
