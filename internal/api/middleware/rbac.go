package middleware

import (
	"fmt"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

// RequireRole lets a request through only when the role claim set by Auth is
// one of roles. Rejections are domain.ErrForbidden for the HTTP error handler.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !slices.Contains(roles, role) {
				return fmt.Errorf("role %q on %s: %w", role, c.Request().URL.Path, domain.ErrForbidden)
			}
			return next(c)
		}
	}
}

// AdminOnly guards the screens reserved to the Admin role.
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}
