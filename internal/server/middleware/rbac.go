package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Authorizer answers capability checks for an authenticated user. Lookups
// that fail resolve to false, never to an error the caller must interpret.
type Authorizer interface {
	IsSuperAdmin(ctx context.Context, userID uuid.UUID) bool
}

// RequireSuperAdmin gates the admin surface. A signed-in user without the
// capability is redirected to the dashboard root rather than shown an error
// page; only a missing session is an outright 401. Chain after Auth.
func RequireSuperAdmin(authorizer Authorizer, redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}

			if !authorizer.IsSuperAdmin(r.Context(), userID) {
				http.Redirect(w, r, redirectTo, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
