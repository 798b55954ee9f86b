package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// RequireRoles restricts a route to staff whose token carries one of the
// given roles ("admin", "support"). Runs after JWTMiddleware, which put the
// role in context; a request with no role never made it through auth.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "role missing"})
			}
			if !slices.Contains(roles, role) {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "access denied"})
			}
			return next(c)
		}
	}
}
