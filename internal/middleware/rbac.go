package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/auth"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

// RequirePermission guards a route with a module/action pair. The JWT
// middleware must run first so the principal is on the context.
func RequirePermission(module string, action models.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := common.GetPrincipalFromContext(c.Request().Context())
			if !ok {
				return common.NewAuthenticationError("Authentication required")
			}
			if err := auth.CheckPermission(principal, module, action); err != nil {
				return err
			}
			return next(c)
		}
	}
}
