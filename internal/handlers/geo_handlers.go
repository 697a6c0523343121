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

type GeoHandlers struct {
	zipCodes     repositories.ZipCodeRepository
	serviceAreas repositories.ServiceAreaRepository
}

func NewGeoHandlers(zipCodes repositories.ZipCodeRepository, serviceAreas repositories.ServiceAreaRepository) *GeoHandlers {
	return &GeoHandlers{zipCodes: zipCodes, serviceAreas: serviceAreas}
}

type zipCodeRequest struct {
	CompanyID *uuid.UUID `json:"company_id"`
	Code      string     `json:"code"`
	City      *string    `json:"city"`
	State     *string    `json:"state"`
}

func (h *GeoHandlers) CreateZipCode(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req zipCodeRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Code, "code"); err != nil {
		return err
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	zip := &models.ZipCode{
		ID:        uuid.New(),
		CompanyID: companyID,
		Code:      strings.TrimSpace(req.Code),
		City:      req.City,
		State:     req.State,
	}
	if err := h.zipCodes.Create(c.Request().Context(), zip); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, zip)
}

func (h *GeoHandlers) DeleteZipCode(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.zipCodes.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *GeoHandlers) ListZipCodes(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	zips, err := h.zipCodes.List(c.Request().Context(), scope, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, zips)
}

type serviceAreaRequest struct {
	CompanyID *uuid.UUID `json:"company_id"`
	Name      string     `json:"name"`
	City      *string    `json:"city"`
	State     *string    `json:"state"`
	Active    *bool      `json:"active"`
}

func (h *GeoHandlers) CreateServiceArea(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req serviceAreaRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	area := &models.ServiceArea{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(req.Name),
		City:      req.City,
		State:     req.State,
		Active:    active,
	}
	if err := h.serviceAreas.Create(c.Request().Context(), area); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, area)
}

func (h *GeoHandlers) UpdateServiceArea(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	area, err := h.serviceAreas.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("service area")
	}

	var req serviceAreaRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Name != "" {
		area.Name = strings.TrimSpace(req.Name)
	}
	if req.City != nil {
		area.City = req.City
	}
	if req.State != nil {
		area.State = req.State
	}
	if req.Active != nil {
		area.Active = *req.Active
	}

	if err := h.serviceAreas.Update(ctx, area); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, area)
}

func (h *GeoHandlers) DeleteServiceArea(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.serviceAreas.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *GeoHandlers) ListServiceAreas(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	areas, err := h.serviceAreas.List(c.Request().Context(), scope, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, areas)
}
