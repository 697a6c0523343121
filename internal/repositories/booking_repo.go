package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, status *string, from, to *time.Time, limit, offset int) ([]*models.Booking, error)
	ListUpcomingByCompany(ctx context.Context, companyID uuid.UUID, after time.Time) ([]*models.Booking, error)
}

type bookingRepo struct {
	db DBTX
}

func NewBookingRepo(db DBTX) BookingRepository {
	return &bookingRepo{db: db}
}

const bookingColumns = `id, company_id, contact_id, campaign_id, title, scheduled_at, status, notes, created_at, updated_at`

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, company_id, contact_id, campaign_id, title, scheduled_at, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, booking.ID, booking.CompanyID, booking.ContactID, booking.CampaignID, booking.Title, booking.ScheduledAt, booking.Status, booking.Notes)
	return err
}

func (r *bookingRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Booking, error) {
	booking := &models.Booking{}
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	err := row.Scan(&booking.ID, &booking.CompanyID, &booking.ContactID, &booking.CampaignID, &booking.Title, &booking.ScheduledAt, &booking.Status, &booking.Notes, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET contact_id = $1, campaign_id = $2, title = $3, scheduled_at = $4, status = $5, notes = $6, updated_at = NOW()
		WHERE company_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, booking.ContactID, booking.CampaignID, booking.Title, booking.ScheduledAt, booking.Status, booking.Notes, booking.CompanyID, booking.ID)
	return err
}

func (r *bookingRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *bookingRepo) List(ctx context.Context, scope tenancy.Scope, status *string, from, to *time.Time, limit, offset int) ([]*models.Booking, error) {
	queryBase := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
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
	if from != nil {
		argN++
		queryBase += fmt.Sprintf(` AND scheduled_at >= $%d`, argN)
		args = append(args, *from)
	}
	if to != nil {
		argN++
		queryBase += fmt.Sprintf(` AND scheduled_at <= $%d`, argN)
		args = append(args, *to)
	}

	queryBase += fmt.Sprintf(` ORDER BY scheduled_at LIMIT $%d OFFSET $%d`, argN+1, argN+2)
	args = append(args, limit, offset)

	return r.queryBookings(ctx, queryBase, args...)
}

// ListUpcomingByCompany returns confirmed bookings scheduled after the
// given cutoff. These anchor the reminder scan for the company's campaigns;
// the scan passes a cutoff slightly in the past so reminders due around the
// anchor itself are not cut off early.
func (r *bookingRepo) ListUpcomingByCompany(ctx context.Context, companyID uuid.UUID, after time.Time) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE company_id = $1 AND status = 'confirmed' AND scheduled_at > $2
		ORDER BY scheduled_at
	`
	return r.queryBookings(ctx, query, companyID, after)
}

func (r *bookingRepo) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking := &models.Booking{}
		if err := rows.Scan(&booking.ID, &booking.CompanyID, &booking.ContactID, &booking.CampaignID, &booking.Title, &booking.ScheduledAt, &booking.Status, &booking.Notes, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}
