package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/services"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type CampaignHandlers struct {
	campaigns       repositories.CampaignRepository
	reminderLogs    repositories.ReminderLogRepository
	campaignService services.CampaignService
}

func NewCampaignHandlers(campaigns repositories.CampaignRepository, reminderLogs repositories.ReminderLogRepository, campaignService services.CampaignService) *CampaignHandlers {
	return &CampaignHandlers{campaigns: campaigns, reminderLogs: reminderLogs, campaignService: campaignService}
}

type campaignRequest struct {
	CompanyID *uuid.UUID        `json:"company_id"`
	Name      string            `json:"name"`
	Subject   string            `json:"subject"`
	HTMLBody  string            `json:"html_body"`
	Status    string            `json:"status"`
	Reminders []models.Reminder `json:"reminders"`
}

func validateReminders(reminders []models.Reminder) error {
	seen := make(map[string]bool, len(reminders))
	for _, r := range reminders {
		if r.Label == "" {
			return common.NewValidationError("reminder label is required")
		}
		if seen[r.Label] {
			return common.NewValidationError("reminder labels must be unique")
		}
		seen[r.Label] = true
		if r.Value <= 0 {
			return common.NewValidationError("reminder value must be positive")
		}
		switch r.Unit {
		case models.ReminderUnitMinutes, models.ReminderUnitHours, models.ReminderUnitDays:
		default:
			return common.NewValidationError("reminder unit must be Minutes, Hours or Days")
		}
	}
	return nil
}

func (h *CampaignHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req campaignRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(req.Subject, "subject"); err != nil {
		return err
	}
	if err := validateReminders(req.Reminders); err != nil {
		return err
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.CampaignStatusDraft
	}
	campaign := &models.EmailCampaign{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      req.Name,
		Subject:   req.Subject,
		HTMLBody:  req.HTMLBody,
		Status:    status,
		Reminders: req.Reminders,
	}
	if err := h.campaigns.Create(c.Request().Context(), campaign); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, campaign)
}

func (h *CampaignHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	campaign, err := h.campaigns.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("campaign")
	}
	return c.JSON(http.StatusOK, campaign)
}

func (h *CampaignHandlers) Update(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	campaign, err := h.campaigns.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("campaign")
	}

	var req campaignRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Name != "" {
		campaign.Name = req.Name
	}
	if req.Subject != "" {
		campaign.Subject = req.Subject
	}
	if req.HTMLBody != "" {
		campaign.HTMLBody = req.HTMLBody
	}
	if req.Status != "" {
		campaign.Status = req.Status
	}
	if req.Reminders != nil {
		if err := validateReminders(req.Reminders); err != nil {
			return err
		}
		campaign.Reminders = req.Reminders
	}

	if err := h.campaigns.Update(ctx, campaign); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaign)
}

func (h *CampaignHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.campaigns.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CampaignHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	status := optionalString(c, "status")

	campaigns, err := h.campaigns.List(c.Request().Context(), scope, status, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaigns)
}

type testSendRequest struct {
	Email string `json:"email"`
}

// TestSend delivers one copy to the given address without touching the
// reminder log.
func (h *CampaignHandlers) TestSend(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	var req testSendRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}

	if err := h.campaignService.TestSend(c.Request().Context(), scope, id, req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

type sendRequest struct {
	ContactIDs []uuid.UUID `json:"contact_ids"`
}

// Send delivers the campaign to an explicit recipient list. The response
// carries one result per requested recipient.
func (h *CampaignHandlers) Send(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}

	results, err := h.campaignService.SendToRecipients(c.Request().Context(), scope, id, req.ContactIDs)
	if err != nil {
		return err
	}

	sent, failed := 0, 0
	for _, r := range results {
		if r.Status == models.ReminderStatusSent {
			sent++
		} else {
			failed++
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"sent":    sent,
		"failed":  failed,
		"results": results,
	})
}

// Activate bulk-promotes every not-yet-active campaign with an enabled
// reminder. Repeating the call reports zero newly activated campaigns.
func (h *CampaignHandlers) Activate(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	activated, err := h.campaignService.ActivateReady(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"activated": activated})
}

func (h *CampaignHandlers) ReminderLogs(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if _, err := h.campaigns.GetByID(c.Request().Context(), scope, id); err != nil {
		return common.NewNotFoundError("campaign")
	}

	limit, offset := paginationParams(c)
	logs, err := h.reminderLogs.ListByCampaign(c.Request().Context(), id, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logs)
}
