package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Product, error)
	ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Product, error)
}

type productRepo struct {
	db DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, company_id, name, sku, unit_price, description, active, created_at, updated_at`

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, company_id, name, sku, unit_price, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.CompanyID, product.Name, product.SKU, product.UnitPrice, product.Description, product.Active)
	if isUniqueViolation(err) {
		return common.NewConflictError("A product with this SKU already exists")
	}
	return err
}

func (r *productRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	err := row.Scan(&product.ID, &product.CompanyID, &product.Name, &product.SKU, &product.UnitPrice, &product.Description, &product.Active, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, sku = $2, unit_price = $3, description = $4, active = $5, updated_at = NOW()
		WHERE company_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.SKU, product.UnitPrice, product.Description, product.Active, product.CompanyID, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *productRepo) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Product, error) {
	var query string
	var args []any

	if scope.All() {
		query = `
			SELECT ` + productColumns + `
			FROM products
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		args = []any{limit, offset}
	} else {
		query = `
			SELECT ` + productColumns + `
			FROM products
			WHERE company_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		args = []any{*scope.CompanyID, limit, offset}
	}

	return r.queryProducts(ctx, query, args...)
}

// ListActiveByCompany backs the public microsite product listing.
func (r *productRepo) ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1 AND active = true
		ORDER BY name
	`
	return r.queryProducts(ctx, query, companyID)
}

func (r *productRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.CompanyID, &product.Name, &product.SKU, &product.UnitPrice, &product.Description, &product.Active, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
