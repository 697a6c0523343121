package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign lifecycle states. Only active campaigns with at least one
// enabled reminder are visible to the scheduler.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusSent      = "sent"
	CampaignStatusScheduled = "scheduled"
)

// ReminderUnit is the time unit a reminder offset is expressed in.
type ReminderUnit string

const (
	ReminderUnitMinutes ReminderUnit = "Minutes"
	ReminderUnitHours   ReminderUnit = "Hours"
	ReminderUnitDays    ReminderUnit = "Days"
)

// Reminder is a configured offset-before-event notification attached to a
// campaign. Stored as JSONB on the campaign row.
type Reminder struct {
	Label   string       `json:"label"`
	Unit    ReminderUnit `json:"unit"`
	Value   int          `json:"value"`
	Enabled bool         `json:"enabled"`
}

// Offset converts the reminder's value/unit pair into a duration before the
// anchor time. Unknown units behave as minutes.
func (r Reminder) Offset() time.Duration {
	switch r.Unit {
	case ReminderUnitHours:
		return time.Duration(r.Value) * time.Hour
	case ReminderUnitDays:
		return time.Duration(r.Value) * 24 * time.Hour
	default:
		return time.Duration(r.Value) * time.Minute
	}
}

// DueAt computes the instant this reminder becomes due for a given anchor.
func (r Reminder) DueAt(anchor time.Time) time.Time {
	return anchor.Add(-r.Offset())
}

type EmailCampaign struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CompanyID uuid.UUID  `json:"company_id" db:"company_id"`
	Name      string     `json:"name" db:"name"`
	Subject   string     `json:"subject" db:"subject"`
	HTMLBody  string     `json:"html_body" db:"html_body"`
	Status    string     `json:"status" db:"status"`
	Reminders []Reminder `json:"reminders" db:"reminders"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// HasEnabledReminder reports whether at least one reminder is enabled,
// which is required for scheduler selection and bulk activation.
func (c *EmailCampaign) HasEnabledReminder() bool {
	for _, r := range c.Reminders {
		if r.Enabled {
			return true
		}
	}
	return false
}

// Reminder log outcomes. At most one sent row may exist per
// (campaign_id, contact_id, reminder_label) triple.
const (
	ReminderStatusSent   = "sent"
	ReminderStatusFailed = "failed"
)

type ReminderLog struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CampaignID    uuid.UUID `json:"campaign_id" db:"campaign_id"`
	ContactID     uuid.UUID `json:"contact_id" db:"contact_id"`
	ReminderLabel string    `json:"reminder_label" db:"reminder_label"`
	Status        string    `json:"status" db:"status"`
	Error         *string   `json:"error,omitempty" db:"error"`
	SentAt        time.Time `json:"sent_at" db:"sent_at"`
}
