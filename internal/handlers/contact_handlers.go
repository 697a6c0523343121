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

type ContactHandlers struct {
	contacts repositories.ContactRepository
}

func NewContactHandlers(contacts repositories.ContactRepository) *ContactHandlers {
	return &ContactHandlers{contacts: contacts}
}

type contactRequest struct {
	CompanyID *uuid.UUID `json:"company_id"`
	OwnerID   *uuid.UUID `json:"owner_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	JobTitle  *string    `json:"job_title"`
	Source    *string    `json:"source"`
	Status    string     `json:"status"`
}

func (h *ContactHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.FirstName, "first_name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return err
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = "active"
	}
	contact := &models.Contact{
		ID:        uuid.New(),
		CompanyID: companyID,
		OwnerID:   req.OwnerID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     req.Phone,
		JobTitle:  req.JobTitle,
		Source:    req.Source,
		Status:    status,
	}
	if err := h.contacts.Create(c.Request().Context(), contact); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	contact, err := h.contacts.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("contact")
	}
	return c.JSON(http.StatusOK, contact)
}

func (h *ContactHandlers) Update(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	contact, err := h.contacts.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("contact")
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.FirstName != "" {
		contact.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		contact.LastName = strings.TrimSpace(req.LastName)
	}
	if req.Email != "" {
		contact.Email = strings.TrimSpace(req.Email)
	}
	if req.Phone != nil {
		contact.Phone = req.Phone
	}
	if req.JobTitle != nil {
		contact.JobTitle = req.JobTitle
	}
	if req.Source != nil {
		contact.Source = req.Source
	}
	if req.Status != "" {
		contact.Status = req.Status
	}
	if req.OwnerID != nil {
		contact.OwnerID = req.OwnerID
	}

	if err := h.contacts.Update(ctx, contact); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contact)
}

func (h *ContactHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.contacts.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContactHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)

	if search := c.QueryParam("search"); search != "" {
		contacts, err := h.contacts.Search(c.Request().Context(), scope, search, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, contacts)
	}

	contacts, err := h.contacts.List(c.Request().Context(), scope, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contacts)
}
