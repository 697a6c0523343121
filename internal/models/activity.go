package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivitySearchFilter holds filter criteria for activity list queries.
type ActivitySearchFilter struct {
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
	DealID    *uuid.UUID `json:"deal_id,omitempty"`
	Type      *string    `json:"type,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// Activity is a logged touchpoint (call, email, note) against a contact or
// deal.
type Activity struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CompanyID  uuid.UUID  `json:"company_id" db:"company_id"`
	ContactID  *uuid.UUID `json:"contact_id,omitempty" db:"contact_id"`
	DealID     *uuid.UUID `json:"deal_id,omitempty" db:"deal_id"`
	CreatedBy  *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	Type       string     `json:"type" db:"type"`
	Subject    string     `json:"subject" db:"subject"`
	Body       *string    `json:"body,omitempty" db:"body"`
	OccurredAt time.Time  `json:"occurred_at" db:"occurred_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

type Meeting struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CompanyID  uuid.UUID  `json:"company_id" db:"company_id"`
	ContactID  *uuid.UUID `json:"contact_id,omitempty" db:"contact_id"`
	OrganizerID *uuid.UUID `json:"organizer_id,omitempty" db:"organizer_id"`
	Title      string     `json:"title" db:"title"`
	Location   *string    `json:"location,omitempty" db:"location"`
	StartsAt   time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt     time.Time  `json:"ends_at" db:"ends_at"`
	Notes      *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
