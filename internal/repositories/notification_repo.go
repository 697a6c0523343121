package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, companyID, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, companyID, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, companyID, userID uuid.UUID) error
}

type notificationRepo struct {
	db DBTX
}

func NewNotificationRepo(db DBTX) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, company_id, user_id, type, title, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
	`
	_, err := r.db.Exec(ctx, query, notification.ID, notification.CompanyID, notification.UserID, notification.Type, notification.Title, notification.Body)
	return err
}

// ListForUser returns the user's own notifications plus company-wide ones
// (user_id IS NULL).
func (r *notificationRepo) ListForUser(ctx context.Context, companyID, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	query := `
		SELECT id, company_id, user_id, type, title, body, read, created_at
		FROM notifications
		WHERE company_id = $1 AND (user_id = $2 OR user_id IS NULL)
	`
	if unreadOnly {
		query += ` AND read = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, companyID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		notification := &models.Notification{}
		if err := rows.Scan(&notification.ID, &notification.CompanyID, &notification.UserID, &notification.Type, &notification.Title, &notification.Body, &notification.Read, &notification.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, companyID, userID, id uuid.UUID) error {
	query := `
		UPDATE notifications SET read = true
		WHERE company_id = $1 AND id = $2 AND (user_id = $3 OR user_id IS NULL)
	`
	_, err := r.db.Exec(ctx, query, companyID, id, userID)
	return err
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, companyID, userID uuid.UUID) error {
	query := `
		UPDATE notifications SET read = true
		WHERE company_id = $1 AND (user_id = $2 OR user_id IS NULL) AND read = false
	`
	_, err := r.db.Exec(ctx, query, companyID, userID)
	return err
}
