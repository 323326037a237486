package middleware

import (
	"net/http"

	"physiocare/internal/delivery/dto"
	"physiocare/internal/delivery/http/view"
	"physiocare/internal/domain/entity"
	"physiocare/pkg/metrics"
)

// RoleGuard builds RequireRole middlewares that render the error view on denial.
type RoleGuard struct {
	renderer view.Renderer
}

func NewRoleGuard(renderer view.Renderer) *RoleGuard {
	return &RoleGuard{renderer: renderer}
}

// RequireRole creates a middleware that checks if the user has any of the required roles.
// It must run after Authenticate.
func (g *RoleGuard) RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentityFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			if !identity.HasRole(allowedRoles...) {
				metrics.AccessDenied.WithLabelValues(identity.Role.String()).Inc()
				g.renderer.Render(w, r, http.StatusForbidden, view.Error, dto.ErrorPage{Message: "Access denied"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func (g *RoleGuard) RequireAdmin(next http.Handler) http.Handler {
	return g.RequireRole(entity.RoleAdmin)(next)
}

// RequireStaff is a convenience middleware for admin or physio endpoints
func (g *RoleGuard) RequireStaff(next http.Handler) http.Handler {
	return g.RequireRole(entity.RoleAdmin, entity.RolePhysio)(next)
}
