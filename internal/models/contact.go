package models

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CompanyID uuid.UUID  `json:"company_id" db:"company_id"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty" db:"owner_id"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	Email     string     `json:"email" db:"email"`
	Phone     *string    `json:"phone,omitempty" db:"phone"`
	JobTitle  *string    `json:"job_title,omitempty" db:"job_title"`
	Source    *string    `json:"source,omitempty" db:"source"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
