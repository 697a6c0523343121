package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.EmailCampaign) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.EmailCampaign, error)
	Update(ctx context.Context, campaign *models.EmailCampaign) error
	UpdateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status string) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, status *string, limit, offset int) ([]*models.EmailCampaign, error)
	ListActiveWithReminders(ctx context.Context) ([]*models.EmailCampaign, error)
	BulkActivate(ctx context.Context, scope tenancy.Scope) (int64, error)
}

type campaignRepo struct {
	db DBTX
}

func NewCampaignRepo(db DBTX) CampaignRepository {
	return &campaignRepo{db: db}
}

const campaignColumns = `id, company_id, name, subject, html_body, status, reminders, created_at, updated_at`

func (r *campaignRepo) Create(ctx context.Context, campaign *models.EmailCampaign) error {
	query := `
		INSERT INTO email_campaigns (id, company_id, name, subject, html_body, status, reminders, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, campaign.ID, campaign.CompanyID, campaign.Name, campaign.Subject, campaign.HTMLBody, campaign.Status, campaign.Reminders)
	return err
}

func (r *campaignRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.EmailCampaign, error) {
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+campaignColumns+` FROM email_campaigns WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+campaignColumns+` FROM email_campaigns WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	campaign := &models.EmailCampaign{}
	err := row.Scan(&campaign.ID, &campaign.CompanyID, &campaign.Name, &campaign.Subject, &campaign.HTMLBody, &campaign.Status, &campaign.Reminders, &campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

func (r *campaignRepo) Update(ctx context.Context, campaign *models.EmailCampaign) error {
	query := `
		UPDATE email_campaigns
		SET name = $1, subject = $2, html_body = $3, status = $4, reminders = $5, updated_at = NOW()
		WHERE company_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, campaign.Name, campaign.Subject, campaign.HTMLBody, campaign.Status, campaign.Reminders, campaign.CompanyID, campaign.ID)
	return err
}

func (r *campaignRepo) UpdateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status string) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `UPDATE email_campaigns SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
		return err
	}
	_, err := r.db.Exec(ctx, `UPDATE email_campaigns SET status = $1, updated_at = NOW() WHERE company_id = $2 AND id = $3`, status, *scope.CompanyID, id)
	return err
}

func (r *campaignRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM email_campaigns WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM email_campaigns WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *campaignRepo) List(ctx context.Context, scope tenancy.Scope, status *string, limit, offset int) ([]*models.EmailCampaign, error) {
	queryBase := `SELECT ` + campaignColumns + ` FROM email_campaigns WHERE 1=1`
	var args []any
	argN := 0

	if !scope.All() {
		argN++
		queryBase += fmt.Sprintf(` AND company_id = $%d`, argN)
		args = append(args, *scope.CompanyID)
	}
	if status != nil {
		argN++
		queryBase += fmt.Sprintf(` AND status = $%d`, argN)
		args = append(args, *status)
	}

	queryBase += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argN+1, argN+2)
	args = append(args, limit, offset)

	return r.queryCampaigns(ctx, queryBase, args...)
}

// ListActiveWithReminders returns every active campaign across all
// companies whose reminders array contains at least one enabled entry.
// This is the scheduler's selection query.
func (r *campaignRepo) ListActiveWithReminders(ctx context.Context) ([]*models.EmailCampaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM email_campaigns
		WHERE status = 'active'
		  AND reminders @> '[{"enabled": true}]'
		ORDER BY company_id, created_at
	`
	return r.queryCampaigns(ctx, query)
}

// BulkActivate flips every campaign with an enabled reminder to active,
// whatever its current status, and reports how many rows changed.
// Already-active campaigns are untouched, so repeated calls are idempotent.
func (r *campaignRepo) BulkActivate(ctx context.Context, scope tenancy.Scope) (int64, error) {
	query := `
		UPDATE email_campaigns
		SET status = 'active', updated_at = NOW()
		WHERE status <> 'active'
		  AND reminders @> '[{"enabled": true}]'
	`
	var args []any
	if !scope.All() {
		query += ` AND company_id = $1`
		args = append(args, *scope.CompanyID)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *campaignRepo) queryCampaigns(ctx context.Context, query string, args ...any) ([]*models.EmailCampaign, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*models.EmailCampaign
	for rows.Next() {
		campaign := &models.EmailCampaign{}
		if err := rows.Scan(&campaign.ID, &campaign.CompanyID, &campaign.Name, &campaign.Subject, &campaign.HTMLBody, &campaign.Status, &campaign.Reminders, &campaign.CreatedAt, &campaign.UpdatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}
