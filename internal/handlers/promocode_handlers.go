package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type PromocodeHandlers struct {
	promocodes repositories.PromocodeRepository
}

func NewPromocodeHandlers(promocodes repositories.PromocodeRepository) *PromocodeHandlers {
	return &PromocodeHandlers{promocodes: promocodes}
}

type promocodeRequest struct {
	CompanyID   *uuid.UUID `json:"company_id"`
	Code        string     `json:"code"`
	Discount    *float64   `json:"discount"`
	Description *string    `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Active      *bool      `json:"active"`
}

func (h *PromocodeHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req promocodeRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Code, "code"); err != nil {
		return err
	}
	if req.Discount == nil || *req.Discount <= 0 || *req.Discount > 100 {
		return common.NewValidationError("discount must be between 0 and 100")
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	promocode := &models.Promocode{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Discount:    *req.Discount,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
		Active:      active,
	}
	if err := h.promocodes.Create(c.Request().Context(), promocode); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, promocode)
}

func (h *PromocodeHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	promocode, err := h.promocodes.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("promocode")
	}
	return c.JSON(http.StatusOK, promocode)
}

func (h *PromocodeHandlers) Update(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	promocode, err := h.promocodes.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("promocode")
	}

	var req promocodeRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Code != "" {
		promocode.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	}
	if req.Discount != nil {
		if *req.Discount <= 0 || *req.Discount > 100 {
			return common.NewValidationError("discount must be between 0 and 100")
		}
		promocode.Discount = *req.Discount
	}
	if req.Description != nil {
		promocode.Description = req.Description
	}
	if req.ExpiresAt != nil {
		promocode.ExpiresAt = req.ExpiresAt
	}
	if req.Active != nil {
		promocode.Active = *req.Active
	}

	if err := h.promocodes.Update(ctx, promocode); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, promocode)
}

func (h *PromocodeHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.promocodes.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PromocodeHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	promocodes, err := h.promocodes.List(c.Request().Context(), scope, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, promocodes)
}
