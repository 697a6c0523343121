package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type NotificationHandlers struct {
	notifications repositories.NotificationRepository
}

func NewNotificationHandlers(notifications repositories.NotificationRepository) *NotificationHandlers {
	return &NotificationHandlers{notifications: notifications}
}

type notificationRequest struct {
	CompanyID *uuid.UUID              `json:"company_id"`
	UserID    *uuid.UUID              `json:"user_id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body"`
}

func (h *NotificationHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req notificationRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return err
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	kind := req.Type
	if kind == "" {
		kind = models.NotificationTypeInApp
	}
	notification := &models.Notification{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    req.UserID,
		Type:      kind,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := h.notifications.Create(c.Request().Context(), notification); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, notification)
}

// List returns the caller's own notifications plus company-wide ones.
func (h *NotificationHandlers) List(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	if err := tenancy.ValidateCompanyAccess(principal); err != nil {
		return err
	}
	if principal.CompanyID == nil {
		return common.NewValidationError("No company associated with this account")
	}
	limit, offset := paginationParams(c)
	unreadOnly := c.QueryParam("unread") == "true"

	notifications, err := h.notifications.ListForUser(c.Request().Context(), *principal.CompanyID, principal.UserID, unreadOnly, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandlers) MarkRead(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	if err := tenancy.ValidateCompanyAccess(principal); err != nil {
		return err
	}
	if principal.CompanyID == nil {
		return common.NewValidationError("No company associated with this account")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Request().Context(), *principal.CompanyID, principal.UserID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandlers) MarkAllRead(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	if err := tenancy.ValidateCompanyAccess(principal); err != nil {
		return err
	}
	if principal.CompanyID == nil {
		return common.NewValidationError("No company associated with this account")
	}
	if err := h.notifications.MarkAllRead(c.Request().Context(), *principal.CompanyID, principal.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
