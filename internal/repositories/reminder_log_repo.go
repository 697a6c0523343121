package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

type ReminderLogRepository interface {
	ClaimSent(ctx context.Context, campaignID, contactID uuid.UUID, label string) (bool, error)
	MarkFailed(ctx context.Context, campaignID, contactID uuid.UUID, label, reason string) error
	HasSent(ctx context.Context, campaignID, contactID uuid.UUID, label string) (bool, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*models.ReminderLog, error)
}

type reminderLogRepo struct {
	db DBTX
}

func NewReminderLogRepo(db DBTX) ReminderLogRepository {
	return &reminderLogRepo{db: db}
}

// ClaimSent records the (campaign, contact, label) triple as sent before the
// mail goes out. The partial unique index on sent rows makes the insert a
// claim: exactly one concurrent scanner wins and only the winner sends. If
// the send later fails the caller downgrades the row with MarkFailed, which
// frees the triple for the next scan.
func (r *reminderLogRepo) ClaimSent(ctx context.Context, campaignID, contactID uuid.UUID, label string) (bool, error) {
	query := `
		INSERT INTO reminder_logs (id, campaign_id, contact_id, reminder_label, status, sent_at)
		VALUES ($1, $2, $3, $4, 'sent', NOW())
		ON CONFLICT (campaign_id, contact_id, reminder_label) WHERE status = 'sent' DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, uuid.New(), campaignID, contactID, label)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *reminderLogRepo) MarkFailed(ctx context.Context, campaignID, contactID uuid.UUID, label, reason string) error {
	query := `
		UPDATE reminder_logs
		SET status = 'failed', error = $1
		WHERE campaign_id = $2 AND contact_id = $3 AND reminder_label = $4 AND status = 'sent'
	`
	_, err := r.db.Exec(ctx, query, reason, campaignID, contactID, label)
	return err
}

func (r *reminderLogRepo) HasSent(ctx context.Context, campaignID, contactID uuid.UUID, label string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reminder_logs
			WHERE campaign_id = $1 AND contact_id = $2 AND reminder_label = $3 AND status = 'sent'
		)
	`
	err := r.db.QueryRow(ctx, query, campaignID, contactID, label).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *reminderLogRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*models.ReminderLog, error) {
	query := `
		SELECT id, campaign_id, contact_id, reminder_label, status, error, sent_at
		FROM reminder_logs
		WHERE campaign_id = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, campaignID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ReminderLog
	for rows.Next() {
		entry := &models.ReminderLog{}
		if err := rows.Scan(&entry.ID, &entry.CampaignID, &entry.ContactID, &entry.ReminderLabel, &entry.Status, &entry.Error, &entry.SentAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, nil
}
