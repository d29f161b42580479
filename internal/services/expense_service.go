package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrExpenseNotOwned    = errors.New("expense belongs to another user")
	ErrCategoryNotAllowed = errors.New("category is not in the configured category list")
)

// ExpenseService implements expense CRUD with ownership checks. The
// category allow-list comes from the budget configuration keys.
type ExpenseService struct {
	expenseRepo repositories.ExpenseRepositoryInterface
	budgets     *config.BudgetConfig
	metrics     MetricsRecorderInterface
	logger      *slog.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	budgets *config.BudgetConfig,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ExpenseServiceInterface {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		budgets:     budgets,
		metrics:     metrics,
		logger:      logger,
	}
}

// List returns one page of a user's expenses for a calendar month,
// newest first, along with the total match count.
func (s *ExpenseService) List(userID uint, year int, month time.Month, page, pageSize int) ([]models.Expense, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	criteria := models.MonthWindow(userID, year, month)
	offset := (page - 1) * pageSize

	expenses, total, err := s.expenseRepo.FindByCriteria(criteria, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, total, nil
}

// GetForUser fetches an expense and verifies ownership. A foreign
// expense yields ErrExpenseNotOwned, distinct from not-found.
func (s *ExpenseService) GetForUser(userID, expenseID uint) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.IsOwnedBy(userID) {
		return nil, ErrExpenseNotOwned
	}
	return expense, nil
}

// Create validates and records a new expense. The amount arrives in
// major units and is converted to cents exactly once, here.
func (s *ExpenseService) Create(userID uint, amount float64, description string, date time.Time, category string) (*models.Expense, error) {
	expense := &models.Expense{
		UserID:      userID,
		Date:        date,
		Category:    strings.TrimSpace(category),
		AmountCents: models.CentsFromMajor(decimal.NewFromFloat(amount)),
		Description: strings.TrimSpace(description),
	}

	if err := s.validate(expense); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Create(expense); err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter("expenses_created", map[string]string{"category": expense.Category})
	s.logger.Info("expense created", "expense_id", expense.ID, "user_id", userID, "category", expense.Category)

	return expense, nil
}

// Update replaces amount, description, date and category of an owned expense
func (s *ExpenseService) Update(userID, expenseID uint, amount float64, description string, date time.Time, category string) (*models.Expense, error) {
	expense, err := s.GetForUser(userID, expenseID)
	if err != nil {
		return nil, err
	}

	expense.AmountCents = models.CentsFromMajor(decimal.NewFromFloat(amount))
	expense.Description = strings.TrimSpace(description)
	expense.Date = date
	expense.Category = strings.TrimSpace(category)

	if err := s.validate(expense); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Update(expense); err != nil {
		return nil, err
	}

	s.logger.Info("expense updated", "expense_id", expense.ID, "user_id", userID)

	return expense, nil
}

// Delete removes an owned expense
func (s *ExpenseService) Delete(userID, expenseID uint) error {
	if _, err := s.GetForUser(userID, expenseID); err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(expenseID); err != nil {
		return err
	}

	s.logger.Info("expense deleted", "expense_id", expenseID, "user_id", userID)
	return nil
}

// ListExpenditureYears returns the distinct years with recorded expenses
func (s *ExpenseService) ListExpenditureYears(userID uint) ([]int, error) {
	return s.expenseRepo.ListExpenditureYears(userID)
}

func (s *ExpenseService) validate(expense *models.Expense) error {
	if err := expense.Validate(); err != nil {
		return err
	}
	if !s.budgets.IsAllowedCategory(expense.Category) {
		return ErrCategoryNotAllowed
	}
	return nil
}
