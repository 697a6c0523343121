package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type EmployeeHandlers struct {
	employees repositories.EmployeeRepository
}

func NewEmployeeHandlers(employees repositories.EmployeeRepository) *EmployeeHandlers {
	return &EmployeeHandlers{employees: employees}
}

type employeeRequest struct {
	CompanyID *uuid.UUID `json:"company_id"`
	UserID    *uuid.UUID `json:"user_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	JobTitle  *string    `json:"job_title"`
	Status    string     `json:"status"`
}

func (h *EmployeeHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.FirstName, "first_name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return err
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = "active"
	}
	employee := &models.Employee{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    req.UserID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     req.Phone,
		JobTitle:  req.JobTitle,
		Status:    status,
	}
	if err := h.employees.Create(c.Request().Context(), employee); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	employee, err := h.employees.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("employee")
	}
	return c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandlers) Update(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	employee, err := h.employees.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("employee")
	}

	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.FirstName != "" {
		employee.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		employee.LastName = strings.TrimSpace(req.LastName)
	}
	if req.Email != "" {
		employee.Email = strings.TrimSpace(req.Email)
	}
	if req.Phone != nil {
		employee.Phone = req.Phone
	}
	if req.JobTitle != nil {
		employee.JobTitle = req.JobTitle
	}
	if req.Status != "" {
		employee.Status = req.Status
	}

	if err := h.employees.Update(ctx, employee); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.employees.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EmployeeHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	employees, err := h.employees.List(c.Request().Context(), scope, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employees)
}
