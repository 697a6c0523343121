package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type PromocodeRepository interface {
	Create(ctx context.Context, promocode *models.Promocode) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Promocode, error)
	GetByCode(ctx context.Context, companyID uuid.UUID, code string) (*models.Promocode, error)
	Update(ctx context.Context, promocode *models.Promocode) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Promocode, error)
}

type promocodeRepo struct {
	db DBTX
}

func NewPromocodeRepo(db DBTX) PromocodeRepository {
	return &promocodeRepo{db: db}
}

const promocodeColumns = `id, company_id, code, discount, description, expires_at, active, created_at, updated_at`

// Create inserts a promocode. The unique index is on (company_id, code),
// so two companies may share the same code string.
func (r *promocodeRepo) Create(ctx context.Context, promocode *models.Promocode) error {
	query := `
		INSERT INTO promocodes (id, company_id, code, discount, description, expires_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, promocode.ID, promocode.CompanyID, promocode.Code, promocode.Discount, promocode.Description, promocode.ExpiresAt, promocode.Active)
	if isUniqueViolation(err) {
		return common.NewConflictError("A promocode with this code already exists")
	}
	return err
}

func (r *promocodeRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Promocode, error) {
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+promocodeColumns+` FROM promocodes WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+promocodeColumns+` FROM promocodes WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	return scanPromocode(row)
}

func (r *promocodeRepo) GetByCode(ctx context.Context, companyID uuid.UUID, code string) (*models.Promocode, error) {
	row := r.db.QueryRow(ctx, `SELECT `+promocodeColumns+` FROM promocodes WHERE company_id = $1 AND code = $2`, companyID, code)
	return scanPromocode(row)
}

func scanPromocode(row interface{ Scan(dest ...any) error }) (*models.Promocode, error) {
	promocode := &models.Promocode{}
	err := row.Scan(&promocode.ID, &promocode.CompanyID, &promocode.Code, &promocode.Discount, &promocode.Description, &promocode.ExpiresAt, &promocode.Active, &promocode.CreatedAt, &promocode.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return promocode, nil
}

func (r *promocodeRepo) Update(ctx context.Context, promocode *models.Promocode) error {
	query := `
		UPDATE promocodes
		SET code = $1, discount = $2, description = $3, expires_at = $4, active = $5, updated_at = NOW()
		WHERE company_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, promocode.Code, promocode.Discount, promocode.Description, promocode.ExpiresAt, promocode.Active, promocode.CompanyID, promocode.ID)
	if isUniqueViolation(err) {
		return common.NewConflictError("A promocode with this code already exists")
	}
	return err
}

func (r *promocodeRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM promocodes WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM promocodes WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *promocodeRepo) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Promocode, error) {
	var query string
	var args []any

	if scope.All() {
		query = `
			SELECT ` + promocodeColumns + `
			FROM promocodes
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		args = []any{limit, offset}
	} else {
		query = `
			SELECT ` + promocodeColumns + `
			FROM promocodes
			WHERE company_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		args = []any{*scope.CompanyID, limit, offset}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promocodes []*models.Promocode
	for rows.Next() {
		promocode := &models.Promocode{}
		if err := rows.Scan(&promocode.ID, &promocode.CompanyID, &promocode.Code, &promocode.Discount, &promocode.Description, &promocode.ExpiresAt, &promocode.Active, &promocode.CreatedAt, &promocode.UpdatedAt); err != nil {
			return nil, err
		}
		promocodes = append(promocodes, promocode)
	}
	return promocodes, nil
}
