package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Invoice, error)
	UpdateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status string) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, status *string, contactID *uuid.UUID, limit, offset int) ([]*models.Invoice, error)
}

type invoiceRepo struct {
	db DBTX
}

func NewInvoiceRepo(db DBTX) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, company_id, contact_id, deal_id, invoice_number, amount, status, issued_at, due_at, paid_at, created_at, updated_at`

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, company_id, contact_id, deal_id, invoice_number, amount, status, issued_at, due_at, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.CompanyID, invoice.ContactID, invoice.DealID, invoice.InvoiceNumber, invoice.Amount, invoice.Status, invoice.IssuedAt, invoice.DueAt, invoice.PaidAt)
	if isUniqueViolation(err) {
		return common.NewConflictError("An invoice with this number already exists")
	}
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	err := row.Scan(&invoice.ID, &invoice.CompanyID, &invoice.ContactID, &invoice.DealID, &invoice.InvoiceNumber, &invoice.Amount, &invoice.Status, &invoice.IssuedAt, &invoice.DueAt, &invoice.PaidAt, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status string) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
		return err
	}
	_, err := r.db.Exec(ctx, `UPDATE invoices SET status = $1, updated_at = NOW() WHERE company_id = $2 AND id = $3`, status, *scope.CompanyID, id)
	return err
}

func (r *invoiceRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *invoiceRepo) List(ctx context.Context, scope tenancy.Scope, status *string, contactID *uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	queryBase := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
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
	if contactID != nil {
		argN++
		queryBase += fmt.Sprintf(` AND contact_id = $%d`, argN)
		args = append(args, *contactID)
	}

	queryBase += fmt.Sprintf(` ORDER BY issued_at DESC LIMIT $%d OFFSET $%d`, argN+1, argN+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.CompanyID, &invoice.ContactID, &invoice.DealID, &invoice.InvoiceNumber, &invoice.Amount, &invoice.Status, &invoice.IssuedAt, &invoice.DueAt, &invoice.PaidAt, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Employee, error)
}

type employeeRepo struct {
	db DBTX
}

func NewEmployeeRepo(db DBTX) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, company_id, user_id, first_name, last_name, email, phone, job_title, status, created_at, updated_at`

func (r *employeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, company_id, user_id, first_name, last_name, email, phone, job_title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, employee.ID, employee.CompanyID, employee.UserID, employee.FirstName, employee.LastName, employee.Email, employee.Phone, employee.JobTitle, employee.Status)
	return err
}

func (r *employeeRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Employee, error) {
	employee := &models.Employee{}
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	err := row.Scan(&employee.ID, &employee.CompanyID, &employee.UserID, &employee.FirstName, &employee.LastName, &employee.Email, &employee.Phone, &employee.JobTitle, &employee.Status, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, email = $3, phone = $4, job_title = $5, status = $6, updated_at = NOW()
		WHERE company_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, employee.FirstName, employee.LastName, employee.Email, employee.Phone, employee.JobTitle, employee.Status, employee.CompanyID, employee.ID)
	return err
}

func (r *employeeRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM employees WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *employeeRepo) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Employee, error) {
	var query string
	var args []any

	if scope.All() {
		query = `
			SELECT ` + employeeColumns + `
			FROM employees
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		args = []any{limit, offset}
	} else {
		query = `
			SELECT ` + employeeColumns + `
			FROM employees
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

	var employees []*models.Employee
	for rows.Next() {
		employee := &models.Employee{}
		if err := rows.Scan(&employee.ID, &employee.CompanyID, &employee.UserID, &employee.FirstName, &employee.LastName, &employee.Email, &employee.Phone, &employee.JobTitle, &employee.Status, &employee.CreatedAt, &employee.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, nil
}
