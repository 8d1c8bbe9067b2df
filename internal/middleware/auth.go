package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/AdamBeresnev/racquet-draw/internal/httputil"
	"github.com/alexedwards/scs/v2"
)

type ContextKey string

const RoleKey ContextKey = "role"

const (
	sessionRoleKey = "role"
	RoleOrganizer  = "organizer"
)

// GrantOrganizer starts an organizer session when token matches the configured one.
// An empty configured token never matches.
func GrantOrganizer(ctx context.Context, sessionManager *scs.SessionManager, configured, token string) bool {
	if configured == "" || subtle.ConstantTimeCompare([]byte(configured), []byte(token)) != 1 {
		return false
	}
	if err := sessionManager.RenewToken(ctx); err != nil {
		return false
	}
	sessionManager.Put(ctx, sessionRoleKey, RoleOrganizer)
	return true
}

func RequireOrganizer(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := sessionManager.GetString(r.Context(), sessionRoleKey)
			if role != RoleOrganizer {
				httputil.Unauthorized(w, "organizer session required")
				return
			}

			ctx := context.WithValue(r.Context(), RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func IsOrganizer(ctx context.Context) bool {
	role, ok := ctx.Value(RoleKey).(string)
	return ok && role == RoleOrganizer
}
