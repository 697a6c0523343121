package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type DealRepository interface {
	Create(ctx context.Context, deal *models.Deal) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Deal, error)
	Update(ctx context.Context, deal *models.Deal) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, filter *models.DealSearchFilter) ([]*models.Deal, error)
}

type dealRepo struct {
	db DBTX
}

func NewDealRepo(db DBTX) DealRepository {
	return &dealRepo{db: db}
}

const dealColumns = `id, company_id, contact_id, owner_id, name, amount, stage, status, expected_close, notes, created_at, updated_at`

func (r *dealRepo) Create(ctx context.Context, deal *models.Deal) error {
	query := `
		INSERT INTO deals (id, company_id, contact_id, owner_id, name, amount, stage, status, expected_close, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, deal.ID, deal.CompanyID, deal.ContactID, deal.OwnerID, deal.Name, deal.Amount, deal.Stage, deal.Status, deal.ExpectedClose, deal.Notes)
	return err
}

func (r *dealRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Deal, error) {
	deal := &models.Deal{}
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	err := row.Scan(&deal.ID, &deal.CompanyID, &deal.ContactID, &deal.OwnerID, &deal.Name, &deal.Amount, &deal.Stage, &deal.Status, &deal.ExpectedClose, &deal.Notes, &deal.CreatedAt, &deal.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return deal, nil
}

func (r *dealRepo) Update(ctx context.Context, deal *models.Deal) error {
	query := `
		UPDATE deals
		SET contact_id = $1, owner_id = $2, name = $3, amount = $4, stage = $5, status = $6, expected_close = $7, notes = $8, updated_at = NOW()
		WHERE company_id = $9 AND id = $10
	`
	_, err := r.db.Exec(ctx, query, deal.ContactID, deal.OwnerID, deal.Name, deal.Amount, deal.Stage, deal.Status, deal.ExpectedClose, deal.Notes, deal.CompanyID, deal.ID)
	return err
}

func (r *dealRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM deals WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

// List builds the query dynamically: the company scope is the base
// predicate and every entity filter narrows it. Caller-supplied filters
// can never widen the scope.
func (r *dealRepo) List(ctx context.Context, scope tenancy.Scope, filter *models.DealSearchFilter) ([]*models.Deal, error) {
	if filter == nil {
		filter = &models.DealSearchFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	queryBase := `SELECT ` + dealColumns + ` FROM deals WHERE 1=1`
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
	if filter.Stage != nil {
		argN++
		queryBase += fmt.Sprintf(` AND stage = $%d`, argN)
		args = append(args, *filter.Stage)
	}
	if filter.Status != nil {
		argN++
		queryBase += fmt.Sprintf(` AND status = $%d`, argN)
		args = append(args, *filter.Status)
	}
	if filter.MinAmount != nil {
		argN++
		queryBase += fmt.Sprintf(` AND amount >= $%d`, argN)
		args = append(args, *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		argN++
		queryBase += fmt.Sprintf(` AND amount <= $%d`, argN)
		args = append(args, *filter.MaxAmount)
	}
	if filter.CloseFrom != nil {
		argN++
		queryBase += fmt.Sprintf(` AND expected_close >= $%d`, argN)
		args = append(args, *filter.CloseFrom)
	}
	if filter.CloseTo != nil {
		argN++
		queryBase += fmt.Sprintf(` AND expected_close <= $%d`, argN)
		args = append(args, *filter.CloseTo)
	}

	argN++
	queryBase += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, argN)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		argN++
		queryBase += fmt.Sprintf(` OFFSET $%d`, argN)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		deal := &models.Deal{}
		if err := rows.Scan(&deal.ID, &deal.CompanyID, &deal.ContactID, &deal.OwnerID, &deal.Name, &deal.Amount, &deal.Stage, &deal.Status, &deal.ExpectedClose, &deal.Notes, &deal.CreatedAt, &deal.UpdatedAt); err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, nil
}
