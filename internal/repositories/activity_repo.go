package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Activity, error)
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, filter *models.ActivitySearchFilter) ([]*models.Activity, error)
}

type activityRepo struct {
	db DBTX
}

func NewActivityRepo(db DBTX) ActivityRepository {
	return &activityRepo{db: db}
}

const activityColumns = `id, company_id, contact_id, deal_id, created_by, type, subject, body, occurred_at, created_at, updated_at`

func (r *activityRepo) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (id, company_id, contact_id, deal_id, created_by, type, subject, body, occurred_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, activity.ID, activity.CompanyID, activity.ContactID, activity.DealID, activity.CreatedBy, activity.Type, activity.Subject, activity.Body, activity.OccurredAt)
	return err
}

func (r *activityRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Activity, error) {
	activity := &models.Activity{}
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	err := row.Scan(&activity.ID, &activity.CompanyID, &activity.ContactID, &activity.DealID, &activity.CreatedBy, &activity.Type, &activity.Subject, &activity.Body, &activity.OccurredAt, &activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *activityRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM activities WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *activityRepo) List(ctx context.Context, scope tenancy.Scope, filter *models.ActivitySearchFilter) ([]*models.Activity, error) {
	if filter == nil {
		filter = &models.ActivitySearchFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	queryBase := `SELECT ` + activityColumns + ` FROM activities WHERE 1=1`
	var args []any
	argN := 0

	if !scope.All() {
		argN++
		queryBase += fmt.Sprintf(` AND company_id = $%d`, argN)
		args = append(args, *scope.CompanyID)
	}
	if filter.ContactID != nil {
		argN++
		queryBase += fmt.Sprintf(` AND contact_id = $%d`, argN)
		args = append(args, *filter.ContactID)
	}
	if filter.DealID != nil {
		argN++
		queryBase += fmt.Sprintf(` AND deal_id = $%d`, argN)
		args = append(args, *filter.DealID)
	}
	if filter.Type != nil {
		argN++
		queryBase += fmt.Sprintf(` AND type = $%d`, argN)
		args = append(args, *filter.Type)
	}
	if filter.From != nil {
		argN++
		queryBase += fmt.Sprintf(` AND occurred_at >= $%d`, argN)
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		argN++
		queryBase += fmt.Sprintf(` AND occurred_at <= $%d`, argN)
		args = append(args, *filter.To)
	}

	queryBase += fmt.Sprintf(` ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d`, argN+1, argN+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		activity := &models.Activity{}
		if err := rows.Scan(&activity.ID, &activity.CompanyID, &activity.ContactID, &activity.DealID, &activity.CreatedBy, &activity.Type, &activity.Subject, &activity.Body, &activity.OccurredAt, &activity.CreatedAt, &activity.UpdatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Meeting, error)
	Update(ctx context.Context, meeting *models.Meeting) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Meeting, error)
}

type meetingRepo struct {
	db DBTX
}

func NewMeetingRepo(db DBTX) MeetingRepository {
	return &meetingRepo{db: db}
}

const meetingColumns = `id, company_id, contact_id, organizer_id, title, location, starts_at, ends_at, notes, created_at, updated_at`

func (r *meetingRepo) Create(ctx context.Context, meeting *models.Meeting) error {
	query := `
		INSERT INTO meetings (id, company_id, contact_id, organizer_id, title, location, starts_at, ends_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, meeting.ID, meeting.CompanyID, meeting.ContactID, meeting.OrganizerID, meeting.Title, meeting.Location, meeting.StartsAt, meeting.EndsAt, meeting.Notes)
	return err
}

func (r *meetingRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Meeting, error) {
	meeting := &models.Meeting{}
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	err := row.Scan(&meeting.ID, &meeting.CompanyID, &meeting.ContactID, &meeting.OrganizerID, &meeting.Title, &meeting.Location, &meeting.StartsAt, &meeting.EndsAt, &meeting.Notes, &meeting.CreatedAt, &meeting.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

func (r *meetingRepo) Update(ctx context.Context, meeting *models.Meeting) error {
	query := `
		UPDATE meetings
		SET contact_id = $1, organizer_id = $2, title = $3, location = $4, starts_at = $5, ends_at = $6, notes = $7, updated_at = NOW()
		WHERE company_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, meeting.ContactID, meeting.OrganizerID, meeting.Title, meeting.Location, meeting.StartsAt, meeting.EndsAt, meeting.Notes, meeting.CompanyID, meeting.ID)
	return err
}

func (r *meetingRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM meetings WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *meetingRepo) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Meeting, error) {
	var query string
	var args []any

	if scope.All() {
		query = `
			SELECT ` + meetingColumns + `
			FROM meetings
			ORDER BY starts_at DESC
			LIMIT $1 OFFSET $2
		`
		args = []any{limit, offset}
	} else {
		query = `
			SELECT ` + meetingColumns + `
			FROM meetings
			WHERE company_id = $1
			ORDER BY starts_at DESC
			LIMIT $2 OFFSET $3
		`
		args = []any{*scope.CompanyID, limit, offset}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []*models.Meeting
	for rows.Next() {
		meeting := &models.Meeting{}
		if err := rows.Scan(&meeting.ID, &meeting.CompanyID, &meeting.ContactID, &meeting.OrganizerID, &meeting.Title, &meeting.Location, &meeting.StartsAt, &meeting.EndsAt, &meeting.Notes, &meeting.CreatedAt, &meeting.UpdatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, nil
}
