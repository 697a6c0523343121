package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

// principalAndScope resolves the authenticated principal and its tenant
// scope. Handlers under the JWT group can rely on the principal being set.
func principalAndScope(c echo.Context) (*models.Principal, tenancy.Scope, error) {
	principal, ok := common.GetPrincipalFromContext(c.Request().Context())
	if !ok {
		return nil, tenancy.Scope{}, common.NewAuthenticationError("Authentication required")
	}
	return principal, tenancy.ScopeFor(principal), nil
}

func paginationParams(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return common.ValidatePaginationParams(limit, offset)
}

func optionalString(c echo.Context, name string) *string {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	return &v
}
