package services

import (
	"fmt"
	"log/slog"
	"time"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"
)

// AlertService compares a month's per-category spending against the
// configured budgets. Alerts are emitted in budget configuration order,
// and only when spending strictly exceeds the limit.
type AlertService struct {
	expenseRepo repositories.ExpenseRepositoryInterface
	budgets     *config.BudgetConfig
	metrics     MetricsRecorderInterface
	logger      *slog.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	budgets *config.BudgetConfig,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AlertServiceInterface {
	return &AlertService{
		expenseRepo: expenseRepo,
		budgets:     budgets,
		metrics:     metrics,
		logger:      logger,
	}
}

// Generate returns the budget overrun alerts for one calendar month.
// Categories with no recorded spending never alert, and spending equal
// to the limit does not alert either.
func (s *AlertService) Generate(userID uint, year int, month time.Month) ([]models.BudgetAlert, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	criteria := models.MonthWindow(userID, year, month)
	spentByCategory, err := s.expenseRepo.SumAmountsByCategory(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}

	alerts := make([]models.BudgetAlert, 0)
	for _, budget := range s.budgets.Budgets() {
		spentCents, ok := spentByCategory[budget.Name]
		if !ok {
			continue
		}
		if spentCents <= models.CentsFromMajor(budget.Limit) {
			continue
		}

		alerts = append(alerts, models.NewBudgetAlert(budget.Name, budget.Limit, spentCents))
		s.metrics.IncrementCounter("budget_alerts", map[string]string{"category": budget.Name})
		s.logger.Info("budget exceeded",
			"user_id", userID,
			"category", budget.Name,
			"spent_cents", spentCents,
			"budget", budget.Limit.String())
	}

	return alerts, nil
}
