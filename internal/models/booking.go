package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a scheduled event (appointment) tied to a contact. Its
// ScheduledAt is the anchor time campaign reminder offsets are measured
// against.
type Booking struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CompanyID   uuid.UUID  `json:"company_id" db:"company_id"`
	ContactID   uuid.UUID  `json:"contact_id" db:"contact_id"`
	CampaignID  *uuid.UUID `json:"campaign_id,omitempty" db:"campaign_id"`
	Title       string     `json:"title" db:"title"`
	ScheduledAt time.Time  `json:"scheduled_at" db:"scheduled_at"`
	Status      string     `json:"status" db:"status"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type Promocode struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CompanyID   uuid.UUID  `json:"company_id" db:"company_id"`
	Code        string     `json:"code" db:"code"`
	Discount    float64    `json:"discount" db:"discount"`
	Description *string    `json:"description,omitempty" db:"description"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	Active      bool       `json:"active" db:"active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
