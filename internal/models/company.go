package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant boundary. Every domain record carries exactly one
// company_id foreign key.
type Company struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Industry  *string   `json:"industry,omitempty" db:"industry"`
	Website   *string   `json:"website,omitempty" db:"website"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	About     *string   `json:"about,omitempty" db:"about"`
	LogoKey   *string   `json:"logo_key,omitempty" db:"logo_key"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MailSettings holds the per-company SMTP transport configuration the mail
// dispatch facade resolves before sending.
type MailSettings struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CompanyID   uuid.UUID `json:"company_id" db:"company_id"`
	Host        string    `json:"host" db:"host"`
	Port        int       `json:"port" db:"port"`
	Username    string    `json:"username" db:"username"`
	Password    string    `json:"-" db:"password"`
	FromAddress string    `json:"from_address" db:"from_address"`
	FromName    string    `json:"from_name" db:"from_name"`
	UseStartTLS bool      `json:"use_starttls" db:"use_starttls"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
