package middleware

import (
	"net/http"

	"github.com/rachmanhakim/hr-management/internal/auth"
)

// RequirePermissions creates a middleware that passes when the user holds any
// of the listed permissions. Prefer auth.RBACAuthorization.Middleware for
// single-permission routes; this exists for the few endpoints reachable
// through more than one capability.
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.HasAnyPermission(append(permissions, "admin")) {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
