package middleware

import (
	"net/http"

	"campuscanteen/internal/common"
	"campuscanteen/internal/services"

	"github.com/labstack/echo/v4"
)

type RBACMiddleware struct {
	policy services.AccessPolicy
}

func NewRBACMiddleware(policy services.AccessPolicy) *RBACMiddleware {
	return &RBACMiddleware{
		policy: policy,
	}
}

// RequirePermission rejects callers whose role lacks permission before the
// handler runs. Canteen scoping is still checked by the services.
func (m *RBACMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := common.GetCallerFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c, "Authentication required")
			}
			if !m.policy.HasPermission(caller, permission) {
				return common.SendError(c, http.StatusForbidden, "UNAUTHORIZED", "Unauthorized", nil)
			}
			return next(c)
		}
	}
}
