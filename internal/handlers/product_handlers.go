package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type ProductHandlers struct {
	products repositories.ProductRepository
}

func NewProductHandlers(products repositories.ProductRepository) *ProductHandlers {
	return &ProductHandlers{products: products}
}

type productRequest struct {
	CompanyID   *uuid.UUID `json:"company_id"`
	Name        string     `json:"name"`
	SKU         *string    `json:"sku"`
	UnitPrice   *float64   `json:"unit_price"`
	Description *string    `json:"description"`
	Active      *bool      `json:"active"`
}

func (h *ProductHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}
	if req.UnitPrice != nil && *req.UnitPrice < 0 {
		return common.NewValidationError("unit_price cannot be negative")
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	price := 0.0
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	product := &models.Product{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Name:        strings.TrimSpace(req.Name),
		SKU:         req.SKU,
		UnitPrice:   price,
		Description: req.Description,
		Active:      active,
	}
	if err := h.products.Create(c.Request().Context(), product); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	product, err := h.products.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) Update(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	product, err := h.products.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("product")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Name != "" {
		product.Name = strings.TrimSpace(req.Name)
	}
	if req.SKU != nil {
		product.SKU = req.SKU
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice < 0 {
			return common.NewValidationError("unit_price cannot be negative")
		}
		product.UnitPrice = *req.UnitPrice
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.products.Update(ctx, product); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	products, err := h.products.List(c.Request().Context(), scope, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}
