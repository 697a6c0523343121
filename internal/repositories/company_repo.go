package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetBySlug(ctx context.Context, slug string) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	List(ctx context.Context, limit, offset int) ([]*models.Company, error)
}

type companyRepo struct {
	db DBTX
}

func NewCompanyRepo(db DBTX) CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, name, slug, industry, website, phone, address, about, logo_key, status, created_at, updated_at`

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, name, slug, industry, website, phone, address, about, logo_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, company.ID, company.Name, company.Slug, company.Industry, company.Website, company.Phone, company.Address, company.About, company.LogoKey, company.Status)
	if isUniqueViolation(err) {
		return common.NewConflictError("A company with this slug already exists")
	}
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&company.ID, &company.Name, &company.Slug, &company.Industry, &company.Website, &company.Phone, &company.Address, &company.About, &company.LogoKey, &company.Status, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	company := &models.Company{}
	query := `SELECT ` + companyColumns + ` FROM companies WHERE slug = $1 AND status = 'active'`
	err := r.db.QueryRow(ctx, query, slug).Scan(&company.ID, &company.Name, &company.Slug, &company.Industry, &company.Website, &company.Phone, &company.Address, &company.About, &company.LogoKey, &company.Status, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = $1, industry = $2, website = $3, phone = $4, address = $5, about = $6, logo_key = $7, status = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, query, company.Name, company.Industry, company.Website, company.Phone, company.Address, company.About, company.LogoKey, company.Status, company.ID)
	return err
}

func (r *companyRepo) List(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company := &models.Company{}
		if err := rows.Scan(&company.ID, &company.Name, &company.Slug, &company.Industry, &company.Website, &company.Phone, &company.Address, &company.About, &company.LogoKey, &company.Status, &company.CreatedAt, &company.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, nil
}

type MailSettingsRepository interface {
	Upsert(ctx context.Context, settings *models.MailSettings) error
	GetByCompany(ctx context.Context, companyID uuid.UUID) (*models.MailSettings, error)
}

type mailSettingsRepo struct {
	db DBTX
}

func NewMailSettingsRepo(db DBTX) MailSettingsRepository {
	return &mailSettingsRepo{db: db}
}

func (r *mailSettingsRepo) Upsert(ctx context.Context, settings *models.MailSettings) error {
	query := `
		INSERT INTO company_mail_settings (id, company_id, host, port, username, password, from_address, from_name, use_starttls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (company_id) DO UPDATE
		SET host = EXCLUDED.host, port = EXCLUDED.port, username = EXCLUDED.username, password = EXCLUDED.password, from_address = EXCLUDED.from_address, from_name = EXCLUDED.from_name, use_starttls = EXCLUDED.use_starttls, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, settings.ID, settings.CompanyID, settings.Host, settings.Port, settings.Username, settings.Password, settings.FromAddress, settings.FromName, settings.UseStartTLS)
	return err
}

func (r *mailSettingsRepo) GetByCompany(ctx context.Context, companyID uuid.UUID) (*models.MailSettings, error) {
	settings := &models.MailSettings{}
	query := `
		SELECT id, company_id, host, port, username, password, from_address, from_name, use_starttls, created_at, updated_at
		FROM company_mail_settings
		WHERE company_id = $1
	`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&settings.ID, &settings.CompanyID, &settings.Host, &settings.Port, &settings.Username, &settings.Password, &settings.FromAddress, &settings.FromName, &settings.UseStartTLS, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return settings, nil
}
