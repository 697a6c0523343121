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

type ActivityHandlers struct {
	activities repositories.ActivityRepository
	meetings   repositories.MeetingRepository
}

func NewActivityHandlers(activities repositories.ActivityRepository, meetings repositories.MeetingRepository) *ActivityHandlers {
	return &ActivityHandlers{activities: activities, meetings: meetings}
}

type activityRequest struct {
	CompanyID  *uuid.UUID `json:"company_id"`
	ContactID  *uuid.UUID `json:"contact_id"`
	DealID     *uuid.UUID `json:"deal_id"`
	Type       string     `json:"type"`
	Subject    string     `json:"subject"`
	Body       *string    `json:"body"`
	OccurredAt *time.Time `json:"occurred_at"`
}

func (h *ActivityHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req activityRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Type, "type"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(req.Subject, "subject"); err != nil {
		return err
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	activity := &models.Activity{
		ID:         uuid.New(),
		CompanyID:  companyID,
		ContactID:  req.ContactID,
		DealID:     req.DealID,
		CreatedBy:  &principal.UserID,
		Type:       req.Type,
		Subject:    req.Subject,
		Body:       req.Body,
		OccurredAt: occurredAt,
	}
	if err := h.activities.Create(c.Request().Context(), activity); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, activity)
}

func (h *ActivityHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	activity, err := h.activities.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("activity")
	}
	return c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.activities.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ActivityHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}

	filter := &models.ActivitySearchFilter{}
	filter.Limit, filter.Offset = paginationParams(c)
	filter.Type = optionalString(c, "type")

	if v := c.QueryParam("contact_id"); v != "" {
		id, err := common.ValidateUUID(v, "contact_id")
		if err != nil {
			return err
		}
		filter.ContactID = &id
	}
	if v := c.QueryParam("deal_id"); v != "" {
		id, err := common.ValidateUUID(v, "deal_id")
		if err != nil {
			return err
		}
		filter.DealID = &id
	}
	if filter.From, err = common.ParseDateParam(c.QueryParam("from"), "from"); err != nil {
		return err
	}
	if filter.To, err = common.ParseDateParam(c.QueryParam("to"), "to"); err != nil {
		return err
	}
	if filter.From != nil && filter.To != nil {
		if err := common.ValidateDateRange(*filter.From, *filter.To); err != nil {
			return err
		}
	}

	activities, err := h.activities.List(c.Request().Context(), scope, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activities)
}

type meetingRequest struct {
	CompanyID *uuid.UUID `json:"company_id"`
	ContactID *uuid.UUID `json:"contact_id"`
	Title     string     `json:"title"`
	Location  *string    `json:"location"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	Notes     *string    `json:"notes"`
}

func (h *ActivityHandlers) CreateMeeting(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req meetingRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return err
	}
	if req.StartsAt == nil || req.EndsAt == nil {
		return common.NewValidationError("starts_at and ends_at are required")
	}
	if req.EndsAt.Before(*req.StartsAt) {
		return common.NewValidationError("ends_at cannot be before starts_at")
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	meeting := &models.Meeting{
		ID:          uuid.New(),
		CompanyID:   companyID,
		ContactID:   req.ContactID,
		OrganizerID: &principal.UserID,
		Title:       req.Title,
		Location:    req.Location,
		StartsAt:    *req.StartsAt,
		EndsAt:      *req.EndsAt,
		Notes:       req.Notes,
	}
	if err := h.meetings.Create(c.Request().Context(), meeting); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, meeting)
}

func (h *ActivityHandlers) GetMeeting(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	meeting, err := h.meetings.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("meeting")
	}
	return c.JSON(http.StatusOK, meeting)
}

func (h *ActivityHandlers) UpdateMeeting(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	meeting, err := h.meetings.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("meeting")
	}

	var req meetingRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Title != "" {
		meeting.Title = req.Title
	}
	if req.Location != nil {
		meeting.Location = req.Location
	}
	if req.ContactID != nil {
		meeting.ContactID = req.ContactID
	}
	if req.StartsAt != nil {
		meeting.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		meeting.EndsAt = *req.EndsAt
	}
	if req.Notes != nil {
		meeting.Notes = req.Notes
	}
	if meeting.EndsAt.Before(meeting.StartsAt) {
		return common.NewValidationError("ends_at cannot be before starts_at")
	}

	if err := h.meetings.Update(ctx, meeting); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meeting)
}

func (h *ActivityHandlers) DeleteMeeting(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.meetings.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ActivityHandlers) ListMeetings(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	meetings, err := h.meetings.List(c.Request().Context(), scope, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meetings)
}
