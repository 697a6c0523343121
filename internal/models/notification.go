package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType represents the delivery channel of a notification.
type NotificationType string

const (
	NotificationTypeEmail NotificationType = "email"
	NotificationTypeInApp NotificationType = "in_app"
)

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	CompanyID uuid.UUID        `json:"company_id" db:"company_id"`
	UserID    *uuid.UUID       `json:"user_id,omitempty" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Body      string           `json:"body" db:"body"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
