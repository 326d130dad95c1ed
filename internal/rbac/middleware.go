package rbac

import (
	"net/http"

	"github.com/mind-engage/clinical-scores/internal/api/respond"
)

// Require enforces a single permission.
func (c *Checker) Require(perm string) func(http.Handler) http.Handler {
	return c.RequireAny(perm)
}

// RequireAny enforces that the role has at least one of the permissions.
func (c *Checker) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !c.Any(role, perms...) {
				respond.Error(w, http.StatusForbidden, respond.KindAuthorization, "forbidden",
					map[string]any{"role": role, "required": perms})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
