package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type InvoiceHandlers struct {
	invoices repositories.InvoiceRepository
}

func NewInvoiceHandlers(invoices repositories.InvoiceRepository) *InvoiceHandlers {
	return &InvoiceHandlers{invoices: invoices}
}

type invoiceRequest struct {
	CompanyID     *uuid.UUID `json:"company_id"`
	ContactID     *uuid.UUID `json:"contact_id"`
	DealID        *uuid.UUID `json:"deal_id"`
	InvoiceNumber string     `json:"invoice_number"`
	Amount        *float64   `json:"amount"`
	Status        string     `json:"status"`
	IssuedAt      *time.Time `json:"issued_at"`
	DueAt         *time.Time `json:"due_at"`
}

func (h *InvoiceHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.InvoiceNumber, "invoice_number"); err != nil {
		return err
	}
	if req.Amount == nil || *req.Amount < 0 {
		return common.NewValidationError("amount must be a non-negative number")
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = "draft"
	}
	issuedAt := time.Now().UTC()
	if req.IssuedAt != nil {
		issuedAt = *req.IssuedAt
	}
	invoice := &models.Invoice{
		ID:            uuid.New(),
		CompanyID:     companyID,
		ContactID:     req.ContactID,
		DealID:        req.DealID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        *req.Amount,
		Status:        status,
		IssuedAt:      issuedAt,
		DueAt:         req.DueAt,
	}
	if err := h.invoices.Create(c.Request().Context(), invoice); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoice)
}

func (h *InvoiceHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	invoice, err := h.invoices.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("invoice")
	}
	return c.JSON(http.StatusOK, invoice)
}

type invoiceStatusRequest struct {
	Status string `json:"status"`
}

func (h *InvoiceHandlers) UpdateStatus(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	var req invoiceStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Status, "status"); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.invoices.GetByID(ctx, scope, id); err != nil {
		return common.NewNotFoundError("invoice")
	}
	if err := h.invoices.UpdateStatus(ctx, scope, id, req.Status); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InvoiceHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.invoices.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InvoiceHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	status := optionalString(c, "status")

	var contactID *uuid.UUID
	if v := c.QueryParam("contact_id"); v != "" {
		id, err := common.ValidateUUID(v, "contact_id")
		if err != nil {
			return err
		}
		contactID = &id
	}

	invoices, err := h.invoices.List(c.Request().Context(), scope, status, contactID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoices)
}
