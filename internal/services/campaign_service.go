package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/mailer"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

// RecipientResult is the per-recipient outcome of a scan or bulk send.
// Every attempted recipient produces exactly one entry; a failure never
// removes entries for the others.
type RecipientResult struct {
	CampaignID    uuid.UUID  `json:"campaign_id"`
	ContactID     uuid.UUID  `json:"contact_id"`
	ReminderLabel string     `json:"reminder_label,omitempty"`
	Email         string     `json:"email,omitempty"`
	Status        string     `json:"status"`
	Error         *string    `json:"error,omitempty"`
	BookingID     *uuid.UUID `json:"booking_id,omitempty"`
}

// ScanResult aggregates one reminder scan pass.
type ScanResult struct {
	StartedAt time.Time         `json:"started_at"`
	Campaigns int               `json:"campaigns"`
	Sent      int               `json:"sent"`
	Failed    int               `json:"failed"`
	Skipped   int               `json:"skipped"`
	Results   []RecipientResult `json:"results"`
}

type CampaignService interface {
	RunReminderScan(ctx context.Context, now time.Time) (*ScanResult, error)
	SendToRecipients(ctx context.Context, scope tenancy.Scope, campaignID uuid.UUID, contactIDs []uuid.UUID) ([]RecipientResult, error)
	TestSend(ctx context.Context, scope tenancy.Scope, campaignID uuid.UUID, toEmail string) error
	ActivateReady(ctx context.Context, scope tenancy.Scope) (int64, error)
}

type campaignService struct {
	campaigns    repositories.CampaignRepository
	bookings     repositories.BookingRepository
	contacts     repositories.ContactRepository
	companies    repositories.CompanyRepository
	reminderLogs repositories.ReminderLogRepository
	mail         mailer.Mailer
	grace        time.Duration
}

// NewCampaignService wires the reminder pipeline. grace is how long past
// its due instant a reminder stays actionable; one scan interval keeps a
// reminder from being silently lost between ticks without resurrecting
// stale ones after downtime.
func NewCampaignService(
	campaigns repositories.CampaignRepository,
	bookings repositories.BookingRepository,
	contacts repositories.ContactRepository,
	companies repositories.CompanyRepository,
	reminderLogs repositories.ReminderLogRepository,
	mail mailer.Mailer,
	grace time.Duration,
) CampaignService {
	if grace <= 0 {
		grace = 5 * time.Minute
	}
	return &campaignService{
		campaigns:    campaigns,
		bookings:     bookings,
		contacts:     contacts,
		companies:    companies,
		reminderLogs: reminderLogs,
		mail:         mail,
		grace:        grace,
	}
}

// RunReminderScan walks every active campaign with an enabled reminder and
// sends the reminders that fall due in [due, due+grace). The sent log is
// claimed before sending, so concurrent scans cannot double-send a
// (campaign, contact, label) triple. A failed send downgrades the claim and
// the triple becomes eligible again on the next pass.
func (s *campaignService) RunReminderScan(ctx context.Context, now time.Time) (*ScanResult, error) {
	campaigns, err := s.campaigns.ListActiveWithReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active campaigns: %w", err)
	}

	result := &ScanResult{StartedAt: now, Campaigns: len(campaigns)}

	for _, campaign := range campaigns {
		// Bookings are fetched back to one grace interval before now, so a
		// reminder with an offset shorter than the grace window is still
		// actionable just after its anchor passes.
		bookings, err := s.bookings.ListUpcomingByCompany(ctx, campaign.CompanyID, now.Add(-s.grace))
		if err != nil {
			log.Printf("reminder scan: listing bookings for campaign %s: %v", campaign.ID, err)
			continue
		}

		for _, reminder := range campaign.Reminders {
			if !reminder.Enabled {
				continue
			}
			for _, booking := range bookings {
				if booking.CampaignID == nil || *booking.CampaignID != campaign.ID {
					continue
				}
				due := reminder.DueAt(booking.ScheduledAt)
				if now.Before(due) || !now.Before(due.Add(s.grace)) {
					continue
				}
				outcome := s.sendReminder(ctx, campaign, booking, reminder)
				result.Results = append(result.Results, outcome)
				switch outcome.Status {
				case models.ReminderStatusSent:
					result.Sent++
				case models.ReminderStatusFailed:
					result.Failed++
				default:
					result.Skipped++
				}
			}
		}
	}

	return result, nil
}

func (s *campaignService) sendReminder(ctx context.Context, campaign *models.EmailCampaign, booking *models.Booking, reminder models.Reminder) RecipientResult {
	result := RecipientResult{
		CampaignID:    campaign.ID,
		ContactID:     booking.ContactID,
		ReminderLabel: reminder.Label,
		BookingID:     &booking.ID,
	}

	claimed, err := s.reminderLogs.ClaimSent(ctx, campaign.ID, booking.ContactID, reminder.Label)
	if err != nil {
		result.Status = models.ReminderStatusFailed
		result.Error = strPtr(err.Error())
		return result
	}
	if !claimed {
		result.Status = "skipped"
		return result
	}

	scope := tenancy.ScopeForCompany(campaign.CompanyID)
	contact, err := s.contacts.GetByID(ctx, scope, booking.ContactID)
	if err != nil {
		s.failClaim(ctx, campaign.ID, booking.ContactID, reminder.Label, "contact not found")
		result.Status = models.ReminderStatusFailed
		result.Error = strPtr("contact not found")
		return result
	}
	result.Email = contact.Email

	subject, body, err := s.render(ctx, campaign, contact)
	if err != nil {
		s.failClaim(ctx, campaign.ID, booking.ContactID, reminder.Label, err.Error())
		result.Status = models.ReminderStatusFailed
		result.Error = strPtr(err.Error())
		return result
	}

	if _, err := s.mail.Send(ctx, campaign.CompanyID, contact.Email, subject, body); err != nil {
		s.failClaim(ctx, campaign.ID, booking.ContactID, reminder.Label, err.Error())
		result.Status = models.ReminderStatusFailed
		result.Error = strPtr(err.Error())
		return result
	}

	result.Status = models.ReminderStatusSent
	return result
}

func (s *campaignService) failClaim(ctx context.Context, campaignID, contactID uuid.UUID, label, reason string) {
	if err := s.reminderLogs.MarkFailed(ctx, campaignID, contactID, label, reason); err != nil {
		log.Printf("reminder scan: downgrading claim %s/%s/%s: %v", campaignID, contactID, label, err)
	}
}

// SendToRecipients delivers the campaign body to an explicit contact list.
// Recipients are processed independently; the result always has one entry
// per requested contact.
func (s *campaignService) SendToRecipients(ctx context.Context, scope tenancy.Scope, campaignID uuid.UUID, contactIDs []uuid.UUID) ([]RecipientResult, error) {
	if len(contactIDs) == 0 {
		return nil, common.NewValidationError("At least one recipient is required")
	}

	campaign, err := s.campaigns.GetByID(ctx, scope, campaignID)
	if err != nil {
		return nil, common.NewNotFoundError("campaign")
	}

	contactScope := tenancy.ScopeForCompany(campaign.CompanyID)
	results := make([]RecipientResult, 0, len(contactIDs))
	for _, contactID := range contactIDs {
		result := RecipientResult{CampaignID: campaign.ID, ContactID: contactID}

		contact, err := s.contacts.GetByID(ctx, contactScope, contactID)
		if err != nil {
			result.Status = models.ReminderStatusFailed
			result.Error = strPtr("contact not found")
			results = append(results, result)
			continue
		}
		result.Email = contact.Email

		subject, body, err := s.render(ctx, campaign, contact)
		if err == nil {
			_, err = s.mail.Send(ctx, campaign.CompanyID, contact.Email, subject, body)
		}
		if err != nil {
			result.Status = models.ReminderStatusFailed
			result.Error = strPtr(err.Error())
		} else {
			result.Status = models.ReminderStatusSent
		}
		results = append(results, result)
	}

	return results, nil
}

// TestSend delivers one rendered copy to an arbitrary address. It bypasses
// the reminder log entirely so repeated test sends always go out.
func (s *campaignService) TestSend(ctx context.Context, scope tenancy.Scope, campaignID uuid.UUID, toEmail string) error {
	if err := common.ValidateRequiredString(toEmail, "email"); err != nil {
		return err
	}

	campaign, err := s.campaigns.GetByID(ctx, scope, campaignID)
	if err != nil {
		return common.NewNotFoundError("campaign")
	}

	sample := &models.Contact{FirstName: "Test", LastName: "Recipient", Email: toEmail}
	subject, body, err := s.render(ctx, campaign, sample)
	if err != nil {
		return err
	}

	_, err = s.mail.Send(ctx, campaign.CompanyID, toEmail, subject, body)
	return err
}

// ActivateReady promotes every campaign that has at least one enabled
// reminder, whatever its current status. Campaigns already active are left
// alone, so the count reports only newly promoted rows and repeating the
// call changes nothing.
func (s *campaignService) ActivateReady(ctx context.Context, scope tenancy.Scope) (int64, error) {
	return s.campaigns.BulkActivate(ctx, scope)
}

// render substitutes contact and company fields into the campaign subject
// and body. Placeholders use text/template fields: {{.first_name}},
// {{.last_name}}, {{.phone}}, {{.company_name}}.
func (s *campaignService) render(ctx context.Context, campaign *models.EmailCampaign, contact *models.Contact) (string, string, error) {
	companyName := ""
	if company, err := s.companies.GetByID(ctx, campaign.CompanyID); err == nil {
		companyName = company.Name
	}

	phone := ""
	if contact.Phone != nil {
		phone = *contact.Phone
	}
	data := map[string]string{
		"first_name":   contact.FirstName,
		"last_name":    contact.LastName,
		"phone":        phone,
		"company_name": companyName,
	}

	subject, err := renderTemplate("subject", campaign.Subject, data)
	if err != nil {
		return "", "", err
	}
	body, err := renderTemplate("body", campaign.HTMLBody, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func renderTemplate(name, text string, data map[string]string) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", common.NewValidationError("Campaign template is invalid: "+err.Error())
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", common.NewValidationError("Campaign template failed to render: "+err.Error())
	}
	return out.String(), nil
}

func strPtr(s string) *string { return &s }
