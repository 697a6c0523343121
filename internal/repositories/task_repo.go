package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, status *string, assigneeID *uuid.UUID, limit, offset int) ([]*models.Task, error)
}

type taskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) TaskRepository {
	return &taskRepo{db: db}
}

const taskColumns = `id, company_id, contact_id, deal_id, assignee_id, title, description, priority, status, due_date, created_at, updated_at`

func (r *taskRepo) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, company_id, contact_id, deal_id, assignee_id, title, description, priority, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, task.ID, task.CompanyID, task.ContactID, task.DealID, task.AssigneeID, task.Title, task.Description, task.Priority, task.Status, task.DueDate)
	return err
}

func (r *taskRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	var row interface{ Scan(dest ...any) error }
	if scope.All() {
		row = r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	}
	err := row.Scan(&task.ID, &task.CompanyID, &task.ContactID, &task.DealID, &task.AssigneeID, &task.Title, &task.Description, &task.Priority, &task.Status, &task.DueDate, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepo) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET contact_id = $1, deal_id = $2, assignee_id = $3, title = $4, description = $5, priority = $6, status = $7, due_date = $8, updated_at = NOW()
		WHERE company_id = $9 AND id = $10
	`
	_, err := r.db.Exec(ctx, query, task.ContactID, task.DealID, task.AssigneeID, task.Title, task.Description, task.Priority, task.Status, task.DueDate, task.CompanyID, task.ID)
	return err
}

func (r *taskRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if scope.All() {
		_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE company_id = $1 AND id = $2`, *scope.CompanyID, id)
	return err
}

func (r *taskRepo) List(ctx context.Context, scope tenancy.Scope, status *string, assigneeID *uuid.UUID, limit, offset int) ([]*models.Task, error) {
	queryBase := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
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
	if assigneeID != nil {
		argN++
		queryBase += fmt.Sprintf(` AND assignee_id = $%d`, argN)
		args = append(args, *assigneeID)
	}

	queryBase += fmt.Sprintf(` ORDER BY due_date NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`, argN+1, argN+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.CompanyID, &task.ContactID, &task.DealID, &task.AssigneeID, &task.Title, &task.Description, &task.Priority, &task.Status, &task.DueDate, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
