package handlers

import (
	"net/http"

	"expense-tracker-api/internal/dto"
	"expense-tracker-api/internal/errors"
	"expense-tracker-api/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the monthly dashboard view
type DashboardHandler struct {
	summaryService services.SummaryServiceInterface
	alertService   services.AlertServiceInterface
	expenseService services.ExpenseServiceInterface
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	summaryService services.SummaryServiceInterface,
	alertService services.AlertServiceInterface,
	expenseService services.ExpenseServiceInterface,
) *DashboardHandler {
	return &DashboardHandler{
		summaryService: summaryService,
		alertService:   alertService,
		expenseService: expenseService,
	}
}

// Dashboard returns the monthly summary, budget alerts and year list
// @Summary Monthly dashboard
// @Description Per-category totals, averages and percentages for one calendar month, with budget overrun alerts
// @Tags Dashboard
// @Produce json
// @Param year query int false "Year (defaults to current)"
// @Param month query int false "Month 1-12 (defaults to current)"
// @Success 200 {object} dto.DashboardResponse "Dashboard data"
// @Failure 400 {object} errors.ErrorResponse "Invalid period - VALIDATION_004"
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	year, month, err := requestPeriod(c)
	if err != nil {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails(err.Error()))
	}

	summary, err := h.summaryService.ComputeMonthlySummary(userID, year, month)
	if err != nil {
		if err == services.ErrInvalidYear || err == services.ErrInvalidMonth {
			return SendError(c, errors.ValidationOutOfRange, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	alerts, err := h.alertService.Generate(userID, year, month)
	if err != nil {
		return SendSystemError(c, err)
	}

	years, err := h.expenseService.ListExpenditureYears(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.DashboardResponse{
		Summary: *summary,
		Alerts:  alerts,
		Years:   years,
	})
}
