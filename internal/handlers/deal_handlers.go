package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type DealHandlers struct {
	deals repositories.DealRepository
}

func NewDealHandlers(deals repositories.DealRepository) *DealHandlers {
	return &DealHandlers{deals: deals}
}

type dealRequest struct {
	CompanyID     *uuid.UUID `json:"company_id"`
	ContactID     *uuid.UUID `json:"contact_id"`
	OwnerID       *uuid.UUID `json:"owner_id"`
	Name          string     `json:"name"`
	Amount        *float64   `json:"amount"`
	Stage         string     `json:"stage"`
	Status        string     `json:"status"`
	ExpectedClose *time.Time `json:"expected_close"`
	Notes         *string    `json:"notes"`
}

func (h *DealHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req dealRequest
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

	amount := 0.0
	if req.Amount != nil {
		amount = *req.Amount
	}
	stage := req.Stage
	if stage == "" {
		stage = "new"
	}
	status := req.Status
	if status == "" {
		status = "open"
	}
	deal := &models.Deal{
		ID:            uuid.New(),
		CompanyID:     companyID,
		ContactID:     req.ContactID,
		OwnerID:       req.OwnerID,
		Name:          req.Name,
		Amount:        amount,
		Stage:         stage,
		Status:        status,
		ExpectedClose: req.ExpectedClose,
		Notes:         req.Notes,
	}
	if err := h.deals.Create(c.Request().Context(), deal); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, deal)
}

func (h *DealHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	deal, err := h.deals.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("deal")
	}
	return c.JSON(http.StatusOK, deal)
}

func (h *DealHandlers) Update(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	deal, err := h.deals.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("deal")
	}

	var req dealRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Name != "" {
		deal.Name = req.Name
	}
	if req.Amount != nil {
		deal.Amount = *req.Amount
	}
	if req.Stage != "" {
		deal.Stage = req.Stage
	}
	if req.Status != "" {
		deal.Status = req.Status
	}
	if req.ContactID != nil {
		deal.ContactID = req.ContactID
	}
	if req.OwnerID != nil {
		deal.OwnerID = req.OwnerID
	}
	if req.ExpectedClose != nil {
		deal.ExpectedClose = req.ExpectedClose
	}
	if req.Notes != nil {
		deal.Notes = req.Notes
	}

	if err := h.deals.Update(ctx, deal); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deal)
}

func (h *DealHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.deals.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List supports entity filters on top of the tenant scope: contact_id,
// stage, status, amount range, expected close date range.
func (h *DealHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}

	filter := &models.DealSearchFilter{}
	filter.Limit, filter.Offset = paginationParams(c)
	filter.Stage = optionalString(c, "stage")
	filter.Status = optionalString(c, "status")

	if v := c.QueryParam("contact_id"); v != "" {
		contactID, err := common.ValidateUUID(v, "contact_id")
		if err != nil {
			return err
		}
		filter.ContactID = &contactID
	}
	if v := c.QueryParam("min_amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return common.NewValidationError("min_amount must be a number")
		}
		filter.MinAmount = &amount
	}
	if v := c.QueryParam("max_amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return common.NewValidationError("max_amount must be a number")
		}
		filter.MaxAmount = &amount
	}
	if filter.CloseFrom, err = common.ParseDateParam(c.QueryParam("close_from"), "close_from"); err != nil {
		return err
	}
	if filter.CloseTo, err = common.ParseDateParam(c.QueryParam("close_to"), "close_to"); err != nil {
		return err
	}
	if filter.CloseFrom != nil && filter.CloseTo != nil {
		if err := common.ValidateDateRange(*filter.CloseFrom, *filter.CloseTo); err != nil {
			return err
		}
	}

	deals, err := h.deals.List(c.Request().Context(), scope, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deals)
}
