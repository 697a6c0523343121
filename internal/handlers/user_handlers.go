package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/auth"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/caching"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/middleware"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type UserHandlers struct {
	users repositories.UserRepository
	cache caching.CacheService
}

func NewUserHandlers(users repositories.UserRepository, cache caching.CacheService) *UserHandlers {
	return &UserHandlers{users: users, cache: cache}
}

type createUserRequest struct {
	CompanyID *uuid.UUID  `json:"company_id"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
}

func validRole(role models.Role) bool {
	switch role {
	case models.RoleSuperAdmin, models.RoleCompanyAdmin, models.RoleCompanyUser, models.RoleEmployee:
		return true
	}
	return false
}

func (h *UserHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return err
	}
	if len(req.Password) < 8 {
		return common.NewValidationError("password must be at least 8 characters")
	}
	role := req.Role
	if role == "" {
		role = models.RoleCompanyUser
	}
	if !validRole(role) {
		return common.NewValidationError("invalid role")
	}
	if role == models.RoleSuperAdmin && !principal.IsSuperAdmin() {
		return common.NewAuthorizationError("Only super admins can create super admins")
	}

	var companyID *uuid.UUID
	if role != models.RoleSuperAdmin {
		id, err := tenancy.RequireCompany(principal, req.CompanyID)
		if err != nil {
			return err
		}
		companyID = &id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		Status:       "active",
	}
	if err := h.users.Create(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandlers) Get(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.NewNotFoundError("user")
	}
	if !principal.IsSuperAdmin() {
		if principal.CompanyID == nil || user.CompanyID == nil || *user.CompanyID != *principal.CompanyID {
			return common.NewNotFoundError("user")
		}
	}
	return c.JSON(http.StatusOK, user)
}

type updatePermissionsRequest struct {
	Permissions []models.ModulePermission `json:"permissions"`
}

// UpdatePermissions replaces the user's per-module overrides. Module names
// outside the known set are rejected here even though the permission engine
// tolerates them, so typos surface at write time.
func (h *UserHandlers) UpdatePermissions(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		return common.NewNotFoundError("user")
	}
	if !principal.IsSuperAdmin() {
		if principal.Role != models.RoleCompanyAdmin {
			return common.NewAuthorizationError("Only admins can change permissions")
		}
		if principal.CompanyID == nil || user.CompanyID == nil || *user.CompanyID != *principal.CompanyID {
			return common.NewNotFoundError("user")
		}
	}

	var req updatePermissionsRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	for _, p := range req.Permissions {
		if !auth.IsKnownModule(p.Module) {
			return common.NewValidationError("unknown module: " + p.Module)
		}
	}

	if err := h.users.UpdatePermissions(ctx, id, req.Permissions); err != nil {
		return err
	}
	middleware.InvalidateUserCache(c, h.cache, id)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandlers) Delete(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if id == principal.UserID {
		return common.NewValidationError("Cannot delete your own account")
	}

	ctx := c.Request().Context()
	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		return common.NewNotFoundError("user")
	}

	var companyID uuid.UUID
	if principal.IsSuperAdmin() {
		if user.CompanyID == nil {
			return common.NewValidationError("Cannot delete a super admin account")
		}
		companyID = *user.CompanyID
	} else {
		if principal.CompanyID == nil || user.CompanyID == nil || *user.CompanyID != *principal.CompanyID {
			return common.NewNotFoundError("user")
		}
		companyID = *principal.CompanyID
	}

	if err := h.users.Delete(ctx, companyID, id); err != nil {
		return err
	}
	middleware.InvalidateUserCache(c, h.cache, id)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandlers) List(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var companyID uuid.UUID
	if principal.IsSuperAdmin() {
		v := c.QueryParam("company_id")
		if v == "" {
			return common.NewValidationError("company_id is required")
		}
		companyID, err = common.ValidateUUID(v, "company_id")
		if err != nil {
			return err
		}
	} else {
		if principal.CompanyID == nil {
			return common.NewValidationError("No company associated with this account")
		}
		companyID = *principal.CompanyID
	}

	limit, offset := paginationParams(c)
	users, err := h.users.List(c.Request().Context(), companyID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
