package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type ZipCodeRepository interface {
	Create(ctx context.Context, zip *models.ZipCode) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.ZipCode, error)
	ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error)
}

type zipCodeRepo struct {
	db DBTX
}

func NewZipCodeRepo(db DBTX) ZipCodeRepository {
	return &zipCodeRepo{db: db}
}

func (r *zipCodeRepo) Create(ctx context.Context, zip *models.ZipCode) error {
	query := `
		INSERT INTO zip_codes (id, company_id, code, city, state, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, zip.ID, zip.CompanyID, zip.Code, zip.City, zip.State)
	if isUniqueViolation(err) {
		return common.NewConflictError("This zip code is already registered")
	}
	return err
}

func (r *zipCodeRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM zip_codes WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM zip_codes WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *zipCodeRepo) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.ZipCode, error) {
	var query string
	var args []any

	if scope.All() {
		query = `
			SELECT id, company_id, code, city, state, created_at
			FROM zip_codes
			ORDER BY code
			LIMIT $1 OFFSET $2
		`
		args = []any{limit, offset}
	} else {
		query = `
			SELECT id, company_id, code, city, state, created_at
			FROM zip_codes
			WHERE company_id = $1
			ORDER BY code
			LIMIT $2 OFFSET $3
		`
		args = []any{*scope.CompanyID, limit, offset}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zips []*models.ZipCode
	for rows.Next() {
		zip := &models.ZipCode{}
		if err := rows.Scan(&zip.ID, &zip.CompanyID, &zip.Code, &zip.City, &zip.State, &zip.CreatedAt); err != nil {
			return nil, err
		}
		zips = append(zips, zip)
	}
	return zips, nil
}

// ExistsByCode backs the public serviceability check on the microsite.
func (r *zipCodeRepo) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM zip_codes WHERE company_id = $1 AND code = $2)`, companyID, code).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type ServiceAreaRepository interface {
	Create(ctx context.Context, area *models.ServiceArea) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.ServiceArea, error)
	Update(ctx context.Context, area *models.ServiceArea) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.ServiceArea, error)
	ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.ServiceArea, error)
}

type serviceAreaRepo struct {
	db DBTX
}

func NewServiceAreaRepo(db DBTX) ServiceAreaRepository {
	return &serviceAreaRepo{db: db}
}

const serviceAreaColumns = `id, company_id, name, city, state, active, created_at, updated_at`

func (r *serviceAreaRepo) Create(ctx context.Context, area *models.ServiceArea) error {
	query := `
		INSERT INTO service_areas (id, company_id, name, city, state, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, area.ID, area.CompanyID, area.Name, area.City, area.State, area.Active)
	return err
}

func (r *serviceAreaRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.ServiceArea, error) {
	area := &models.ServiceArea{}
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+serviceAreaColumns+` FROM service_areas WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+serviceAreaColumns+` FROM service_areas WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	err := row.Scan(&area.ID, &area.CompanyID, &area.Name, &area.City, &area.State, &area.Active, &area.CreatedAt, &area.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return area, nil
}

func (r *serviceAreaRepo) Update(ctx context.Context, area *models.ServiceArea) error {
	query := `
		UPDATE service_areas
		SET name = $1, city = $2, state = $3, active = $4, updated_at = NOW()
		WHERE company_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, area.Name, area.City, area.State, area.Active, area.CompanyID, area.ID)
	return err
}

func (r *serviceAreaRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM service_areas WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM service_areas WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *serviceAreaRepo) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.ServiceArea, error) {
	var query string
	var args []any

	if scope.All() {
		query = `
			SELECT ` + serviceAreaColumns + `
			FROM service_areas
			ORDER BY name
			LIMIT $1 OFFSET $2
		`
		args = []any{limit, offset}
	} else {
		query = `
			SELECT ` + serviceAreaColumns + `
			FROM service_areas
			WHERE company_id = $1
			ORDER BY name
			LIMIT $2 OFFSET $3
		`
		args = []any{*scope.CompanyID, limit, offset}
	}

	return r.queryServiceAreas(ctx, query, args...)
}

func (r *serviceAreaRepo) ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.ServiceArea, error) {
	query := `
		SELECT ` + serviceAreaColumns + `
		FROM service_areas
		WHERE company_id = $1 AND active = true
		ORDER BY name
	`
	return r.queryServiceAreas(ctx, query, companyID)
}

func (r *serviceAreaRepo) queryServiceAreas(ctx context.Context, query string, args ...any) ([]*models.ServiceArea, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []*models.ServiceArea
	for rows.Next() {
		area := &models.ServiceArea{}
		if err := rows.Scan(&area.ID, &area.CompanyID, &area.Name, &area.City, &area.State, &area.Active, &area.CreatedAt, &area.UpdatedAt); err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}
	return areas, nil
}
