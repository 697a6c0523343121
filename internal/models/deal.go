package models

import (
	"time"

	"github.com/google/uuid"
)

// DealSearchFilter holds filter criteria for deal list queries. Entity
// filters are always merged on top of the company scope, never replacing it.
type DealSearchFilter struct {
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
	Stage     *string    `json:"stage,omitempty"`
	Status    *string    `json:"status,omitempty"`
	MinAmount *float64   `json:"min_amount,omitempty"`
	MaxAmount *float64   `json:"max_amount,omitempty"`
	CloseFrom *time.Time `json:"close_from,omitempty"`
	CloseTo   *time.Time `json:"close_to,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

type Deal struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	CompanyID     uuid.UUID  `json:"company_id" db:"company_id"`
	ContactID     *uuid.UUID `json:"contact_id,omitempty" db:"contact_id"`
	OwnerID       *uuid.UUID `json:"owner_id,omitempty" db:"owner_id"`
	Name          string     `json:"name" db:"name"`
	Amount        float64    `json:"amount" db:"amount"`
	Stage         string     `json:"stage" db:"stage"`
	Status        string     `json:"status" db:"status"`
	ExpectedClose *time.Time `json:"expected_close,omitempty" db:"expected_close"`
	Notes         *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
