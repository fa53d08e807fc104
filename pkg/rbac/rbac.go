// Package rbac gates routes by the role middleware.Auth put on the request.
//
//	admin := user.Group("", rbac.HasRole(models.RoleAdmin))
package rbac

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"github.com/shashiranjanraj/honeyshop/pkg/middleware"
	"github.com/shashiranjanraj/honeyshop/pkg/response"
)

// Can reports whether the caller in ctx holds one of roles.
func Can(ctx context.Context, roles ...string) bool {
	role, ok := middleware.RoleFromCtx(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasRole lets through callers holding one of roles. A request without an
// identity gets 401, a known user with the wrong role gets 403.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := middleware.UserIDFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "")
				return
			}
			if !Can(r.Context(), roles...) {
				logger.WithCtx(r.Context()).Warn("rbac: denied",
					"user_id", userID, "path", r.URL.Path, "need", roles)
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
