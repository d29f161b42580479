package handlers

import (
	"fmt"
	"net/http"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/repositories"
	"expense-tracker-api/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	expenseRepo repositories.ExpenseRepositoryInterface
	generator   services.ExpenseGeneratorInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(expenseRepo repositories.ExpenseRepositoryInterface, budgets *config.BudgetConfig) *DevHandler {
	return &DevHandler{
		expenseRepo: expenseRepo,
		generator:   services.NewExpenseGenerator(budgets),
	}
}

// GenerateTestData seeds one month of realistic expense data for the
// authenticated user.
//
// Method: POST /api/v1/dev/generate-test-data
// Authentication: Required
// Environment: Development only
//
// Query parameters:
//   - year: Target year (default: current)
//   - month: Target month 1-12 (default: current)
//   - count: Number of expenses to generate (default: 50, max: 500)
func (h *DevHandler) GenerateTestData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	year, month, err := requestPeriod(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := services.ValidatePeriod(year, month); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	count := getIntQueryParam(c, "count", 50)
	if count < 1 {
		count = 1
	}
	if count > 500 {
		count = 500
	}

	expenses := h.generator.GenerateMonthlyExpenses(userID, year, month, count)
	created := 0
	for _, expense := range expenses {
		if err := h.expenseRepo.Create(expense); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to store generated expenses")
		}
		created++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":          "Test data generated successfully",
		"expenses_created": created,
	})
}

func getIntQueryParam(c echo.Context, key string, defaultValue int) int {
	valueStr := c.QueryParam(key)
	if valueStr == "" {
		return defaultValue
	}

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return defaultValue
	}

	return value
}
