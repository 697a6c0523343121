package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID          `json:"id" db:"id"`
	CompanyID    *uuid.UUID         `json:"company_id,omitempty" db:"company_id"`
	Email        string             `json:"email" db:"email"`
	PasswordHash string             `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName    string             `json:"first_name" db:"first_name"`
	LastName     string             `json:"last_name" db:"last_name"`
	Role         Role               `json:"role" db:"role"`
	Permissions  []ModulePermission `json:"permissions,omitempty" db:"permissions"`
	Status       string             `json:"status" db:"status"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}
