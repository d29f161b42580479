package repositories

import (
	"errors"
	"fmt"

	"expense-tracker-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrExpenseNotFound = errors.New("expense not found")

// expenseRepository implements ExpenseRepositoryInterface
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepositoryInterface {
	return &expenseRepository{
		db: db,
	}
}

// WithTx returns a repository bound to the given transaction handle
func (r *expenseRepository) WithTx(tx *gorm.DB) ExpenseRepositoryInterface {
	return &expenseRepository{db: tx}
}

// Create creates a new expense
func (r *expenseRepository) Create(expense *models.Expense) error {
	if err := r.db.Create(expense).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense by ID
func (r *expenseRepository) GetByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &expense, nil
}

// FindByCriteria retrieves expenses matching the criteria with pagination,
// newest first, together with the total match count.
func (r *expenseRepository) FindByCriteria(criteria models.ExpenseCriteria, offset, limit int) ([]models.Expense, int64, error) {
	var expenses []models.Expense
	var total int64

	if err := r.scoped(criteria).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	if err := r.scoped(criteria).
		Offset(offset).Limit(limit).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find expenses: %w", err)
	}

	return expenses, total, nil
}

// Update persists all fields of an existing expense
func (r *expenseRepository) Update(expense *models.Expense) error {
	result := r.db.Save(expense)
	if result.Error != nil {
		return fmt.Errorf("failed to update expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// Delete removes an expense by ID
func (r *expenseRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Expense{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// SumAmounts returns the total of all matching amounts in cents
func (r *expenseRepository) SumAmounts(criteria models.ExpenseCriteria) (int64, error) {
	var result struct {
		TotalCents int64
	}

	if err := r.scoped(criteria).
		Select("COALESCE(SUM(amount_cents), 0) AS total_cents").
		Scan(&result).Error; err != nil {
		return 0, fmt.Errorf("failed to sum expense amounts: %w", err)
	}

	return result.TotalCents, nil
}

// SumAmountsByCategory returns per-category amount totals in cents
func (r *expenseRepository) SumAmountsByCategory(criteria models.ExpenseCriteria) (map[string]int64, error) {
	var rows []struct {
		Category   string
		TotalCents int64
	}

	if err := r.scoped(criteria).
		Select("category, SUM(amount_cents) AS total_cents").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to sum expense amounts by category: %w", err)
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Category] = row.TotalCents
	}
	return totals, nil
}

// AverageAmountsByCategory returns per-category mean amounts in cents.
// SQL AVG yields a float; the result is rounded half away from zero to the
// nearest cent before leaving the repository.
func (r *expenseRepository) AverageAmountsByCategory(criteria models.ExpenseCriteria) (map[string]int64, error) {
	var rows []struct {
		Category     string
		AverageCents float64
	}

	if err := r.scoped(criteria).
		Select("category, AVG(amount_cents) AS average_cents").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to average expense amounts by category: %w", err)
	}

	averages := make(map[string]int64, len(rows))
	for _, row := range rows {
		averages[row.Category] = decimal.NewFromFloat(row.AverageCents).Round(0).IntPart()
	}
	return averages, nil
}

// ListExpenditureYears returns the distinct years, newest first, in which
// a user recorded expenses. Year extraction happens in Go to stay portable
// across the postgres and sqlite dialects.
func (r *expenseRepository) ListExpenditureYears(userID uint) ([]int, error) {
	var dates []models.Expense
	if err := r.db.Model(&models.Expense{}).
		Select("date").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&dates).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenditure years: %w", err)
	}

	seen := make(map[int]bool)
	var years []int
	for _, e := range dates {
		year := e.Date.Year()
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}
	return years, nil
}

func (r *expenseRepository) scoped(criteria models.ExpenseCriteria) *gorm.DB {
	return r.db.Model(&models.Expense{}).
		Where("user_id = ?", criteria.UserID).
		Where("date >= ? AND date < ?", criteria.From, criteria.To)
}
