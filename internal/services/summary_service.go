package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"
)

var (
	ErrInvalidYear  = errors.New("year must be a positive four digit value")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// SummaryService aggregates a user's expenses into a monthly view:
// overall expenditure, per-category totals and averages, and each
// category's share of the month. All arithmetic stays in integer cents
// until the final conversion for presentation.
type SummaryService struct {
	expenseRepo repositories.ExpenseRepositoryInterface
	logger      *slog.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(expenseRepo repositories.ExpenseRepositoryInterface, logger *slog.Logger) SummaryServiceInterface {
	return &SummaryService{
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

// ComputeMonthlySummary builds the dashboard aggregate for one calendar month
func (s *SummaryService) ComputeMonthlySummary(userID uint, year int, month time.Month) (*models.MonthlySummary, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	criteria := models.MonthWindow(userID, year, month)

	totalCents, err := s.expenseRepo.SumAmounts(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	totalsByCategory, err := s.expenseRepo.SumAmountsByCategory(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}

	averagesByCategory, err := s.expenseRepo.AverageAmountsByCategory(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to average expenses by category: %w", err)
	}

	summary := &models.MonthlySummary{
		Year:             year,
		Month:            month,
		TotalExpenditure: models.MajorFloatFromCents(totalCents),
		CategoryTotals:   make(map[string]models.CategoryBreakdown, len(totalsByCategory)),
		CategoryAverages: make(map[string]models.CategoryBreakdown, len(averagesByCategory)),
	}

	for category, cents := range totalsByCategory {
		summary.CategoryTotals[category] = models.CategoryBreakdown{
			Value:      models.MajorFloatFromCents(cents),
			Percentage: percentageOf(cents, totalCents),
		}
	}
	for category, cents := range averagesByCategory {
		summary.CategoryAverages[category] = models.CategoryBreakdown{
			Value:      models.MajorFloatFromCents(cents),
			Percentage: percentageOf(cents, totalCents),
		}
	}

	s.logger.Debug("monthly summary computed",
		"user_id", userID,
		"year", year,
		"month", int(month),
		"total_cents", totalCents,
		"categories", len(totalsByCategory))

	return summary, nil
}

// percentageOf returns part/total as a percentage, or 0 when the month
// has no expenditure at all.
func percentageOf(partCents, totalCents int64) float64 {
	if totalCents == 0 {
		return 0
	}
	return float64(partCents) / float64(totalCents) * 100
}

// ValidatePeriod rejects out-of-range dashboard periods before any
// repository work happens.
func ValidatePeriod(year int, month time.Month) error {
	if year < 1000 || year > 9999 {
		return ErrInvalidYear
	}
	if month < time.January || month > time.December {
		return ErrInvalidMonth
	}
	return nil
}
