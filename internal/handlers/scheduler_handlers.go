package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/jobs/background"
)

type SchedulerHandlers struct {
	scheduler *background.ReminderScheduler
}

func NewSchedulerHandlers(scheduler *background.ReminderScheduler) *SchedulerHandlers {
	return &SchedulerHandlers{scheduler: scheduler}
}

// Run triggers one out-of-band reminder scan. Safe to call while the
// recurring scan is ticking; the claim log prevents double sends.
func (h *SchedulerHandlers) Run(c echo.Context) error {
	result, err := h.scheduler.ForceScan(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *SchedulerHandlers) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.Status())
}
