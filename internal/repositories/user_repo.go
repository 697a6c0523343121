package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePermissions(ctx context.Context, id uuid.UUID, permissions []models.ModulePermission) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.User, error)
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, company_id, email, password_hash, first_name, last_name, role, permissions, status, created_at, updated_at`

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, company_id, email, password_hash, first_name, last_name, role, permissions, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.CompanyID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role, user.Permissions, user.Status)
	if isUniqueViolation(err) {
		return common.NewConflictError("A user with this email already exists")
	}
	return err
}

func (r *userRepo) scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.CompanyID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Role, &user.Permissions, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, role = $3, status = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, user.FirstName, user.LastName, user.Role, user.Status, user.ID)
	return err
}

func (r *userRepo) UpdatePermissions(ctx context.Context, id uuid.UUID, permissions []models.ModulePermission) error {
	query := `UPDATE users SET permissions = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, permissions, id)
	return err
}

func (r *userRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	query := `DELETE FROM users WHERE company_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, companyID, id)
	return err
}

func (r *userRepo) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.CompanyID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Role, &user.Permissions, &user.Status, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
