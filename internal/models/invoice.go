package models

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	CompanyID     uuid.UUID  `json:"company_id" db:"company_id"`
	ContactID     *uuid.UUID `json:"contact_id,omitempty" db:"contact_id"`
	DealID        *uuid.UUID `json:"deal_id,omitempty" db:"deal_id"`
	InvoiceNumber string     `json:"invoice_number" db:"invoice_number"`
	Amount        float64    `json:"amount" db:"amount"`
	Status        string     `json:"status" db:"status"`
	IssuedAt      time.Time  `json:"issued_at" db:"issued_at"`
	DueAt         *time.Time `json:"due_at,omitempty" db:"due_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type Employee struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CompanyID uuid.UUID  `json:"company_id" db:"company_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	Email     string     `json:"email" db:"email"`
	Phone     *string    `json:"phone,omitempty" db:"phone"`
	JobTitle  *string    `json:"job_title,omitempty" db:"job_title"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
