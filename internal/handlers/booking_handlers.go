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

type BookingHandlers struct {
	bookings repositories.BookingRepository
}

func NewBookingHandlers(bookings repositories.BookingRepository) *BookingHandlers {
	return &BookingHandlers{bookings: bookings}
}

type bookingRequest struct {
	CompanyID   *uuid.UUID `json:"company_id"`
	ContactID   *uuid.UUID `json:"contact_id"`
	CampaignID  *uuid.UUID `json:"campaign_id"`
	Title       string     `json:"title"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Status      string     `json:"status"`
	Notes       *string    `json:"notes"`
}

func (h *BookingHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return err
	}
	if req.ContactID == nil {
		return common.NewValidationError("contact_id is required")
	}
	if req.ScheduledAt == nil {
		return common.NewValidationError("scheduled_at is required")
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = "confirmed"
	}
	booking := &models.Booking{
		ID:          uuid.New(),
		CompanyID:   companyID,
		ContactID:   *req.ContactID,
		CampaignID:  req.CampaignID,
		Title:       strings.TrimSpace(req.Title),
		ScheduledAt: *req.ScheduledAt,
		Status:      status,
		Notes:       req.Notes,
	}
	if err := h.bookings.Create(c.Request().Context(), booking); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	booking, err := h.bookings.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("booking")
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandlers) Update(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	booking, err := h.bookings.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("booking")
	}

	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Title != "" {
		booking.Title = strings.TrimSpace(req.Title)
	}
	if req.ContactID != nil {
		booking.ContactID = *req.ContactID
	}
	if req.CampaignID != nil {
		booking.CampaignID = req.CampaignID
	}
	if req.ScheduledAt != nil {
		booking.ScheduledAt = *req.ScheduledAt
	}
	if req.Status != "" {
		booking.Status = req.Status
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	if err := h.bookings.Update(ctx, booking); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.bookings.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	status := optionalString(c, "status")

	from, err := common.ParseDateParam(c.QueryParam("from"), "from")
	if err != nil {
		return err
	}
	to, err := common.ParseDateParam(c.QueryParam("to"), "to")
	if err != nil {
		return err
	}
	if from != nil && to != nil {
		if err := common.ValidateDateRange(*from, *to); err != nil {
			return err
		}
	}

	bookings, err := h.bookings.List(c.Request().Context(), scope, status, from, to, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}
