package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Contact, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Contact, error)
	Search(ctx context.Context, scope tenancy.Scope, query string, limit, offset int) ([]*models.Contact, error)
}

type contactRepo struct {
	db DBTX
}

func NewContactRepo(db DBTX) ContactRepository {
	return &contactRepo{db: db}
}

const contactColumns = `id, company_id, owner_id, first_name, last_name, email, phone, job_title, source, status, created_at, updated_at`

func (r *contactRepo) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (id, company_id, owner_id, first_name, last_name, email, phone, job_title, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, contact.ID, contact.CompanyID, contact.OwnerID, contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.JobTitle, contact.Source, contact.Status)
	return err
}

func (r *contactRepo) scanContact(row interface{ Scan(dest ...any) error }) (*models.Contact, error) {
	contact := &models.Contact{}
	err := row.Scan(&contact.ID, &contact.CompanyID, &contact.OwnerID, &contact.FirstName, &contact.LastName, &contact.Email, &contact.Phone, &contact.JobTitle, &contact.Source, &contact.Status, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *contactRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Contact, error) {
	if scope.All() {
		query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
		return r.scanContact(r.db.QueryRow(ctx, query, id))
	}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE company_id = $1 AND id = $2`
	return r.scanContact(r.db.QueryRow(ctx, query, *scope.CompanyID, id))
}

func (r *contactRepo) Update(ctx context.Context, contact *models.Contact) error {
	query := `
		UPDATE contacts
		SET first_name = $1, last_name = $2, email = $3, phone = $4, job_title = $5, source = $6, status = $7, owner_id = $8, updated_at = NOW()
		WHERE company_id = $9 AND id = $10
	`
	_, err := r.db.Exec(ctx, query, contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.JobTitle, contact.Source, contact.Status, contact.OwnerID, contact.CompanyID, contact.ID)
	return err
}

func (r *contactRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *contactRepo) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Contact, error) {
	var query string
	var args []any

	if scope.All() {
		query = `
			SELECT ` + contactColumns + `
			FROM contacts
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		args = []any{limit, offset}
	} else {
		query = `
			SELECT ` + contactColumns + `
			FROM contacts
			WHERE company_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		args = []any{*scope.CompanyID, limit, offset}
	}

	return r.queryContacts(ctx, query, args...)
}

// ListByCompany returns every contact of one company. Used by the
// campaign-reminder scheduler to resolve a campaign's target population.
func (r *contactRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE company_id = $1 AND status = 'active'
		ORDER BY created_at
	`
	return r.queryContacts(ctx, query, companyID)
}

func (r *contactRepo) Search(ctx context.Context, scope tenancy.Scope, search string, limit, offset int) ([]*models.Contact, error) {
	pattern := "%" + search + "%"
	var query string
	var args []any

	if scope.All() {
		query = `
			SELECT ` + contactColumns + `
			FROM contacts
			WHERE (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1)
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		args = []any{pattern, limit, offset}
	} else {
		query = `
			SELECT ` + contactColumns + `
			FROM contacts
			WHERE company_id = $1 AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)
			ORDER BY created_at DESC
			LIMIT $3 OFFSET $4
		`
		args = []any{*scope.CompanyID, pattern, limit, offset}
	}

	return r.queryContacts(ctx, query, args...)
}

func (r *contactRepo) queryContacts(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		if err := rows.Scan(&contact.ID, &contact.CompanyID, &contact.OwnerID, &contact.FirstName, &contact.LastName, &contact.Email, &contact.Phone, &contact.JobTitle, &contact.Source, &contact.Status, &contact.CreatedAt, &contact.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}
