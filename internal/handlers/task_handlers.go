package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type TaskHandlers struct {
	tasks repositories.TaskRepository
}

func NewTaskHandlers(tasks repositories.TaskRepository) *TaskHandlers {
	return &TaskHandlers{tasks: tasks}
}

type taskRequest struct {
	CompanyID   *uuid.UUID `json:"company_id"`
	ContactID   *uuid.UUID `json:"contact_id"`
	DealID      *uuid.UUID `json:"deal_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *TaskHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return err
	}

	companyID, err := tenancy.RequireCompany(principal, req.CompanyID)
	if err != nil {
		return err
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}
	status := req.Status
	if status == "" {
		status = "open"
	}
	task := &models.Task{
		ID:          uuid.New(),
		CompanyID:   companyID,
		ContactID:   req.ContactID,
		DealID:      req.DealID,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      status,
		DueDate:     req.DueDate,
	}
	if err := h.tasks.Create(c.Request().Context(), task); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHandlers) Get(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	task, err := h.tasks.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return common.NewNotFoundError("task")
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandlers) Update(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.tasks.GetByID(ctx, scope, id)
	if err != nil {
		return common.NewNotFoundError("task")
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	if req.Status != "" {
		task.Status = req.Status
	}
	if req.ContactID != nil {
		task.ContactID = req.ContactID
	}
	if req.DealID != nil {
		task.DealID = req.DealID
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := h.tasks.Update(ctx, task); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandlers) Delete(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.tasks.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TaskHandlers) List(c echo.Context) error {
	_, scope, err := principalAndScope(c)
	if err != nil {
		return err
	}
	limit, offset := paginationParams(c)
	status := optionalString(c, "status")

	var assigneeID *uuid.UUID
	if v := c.QueryParam("assignee_id"); v != "" {
		id, err := common.ValidateUUID(v, "assignee_id")
		if err != nil {
			return err
		}
		assigneeID = &id
	}

	tasks, err := h.tasks.List(c.Request().Context(), scope, status, assigneeID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}
