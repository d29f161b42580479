package services

import (
	"math/rand"
	"time"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

type expenseGenerator struct {
	budgets *config.BudgetConfig
	faker   *gofakeit.Faker
	rng     *rand.Rand
}

// NewExpenseGenerator creates a new expense generator for development seeding
func NewExpenseGenerator(budgets *config.BudgetConfig) ExpenseGeneratorInterface {
	seed := time.Now().UnixNano()
	return &expenseGenerator{
		budgets: budgets,
		faker:   gofakeit.New(seed),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// GenerateMonthlyExpenses produces count expenses spread across one
// calendar month, drawing categories from the budget configuration.
func (g *expenseGenerator) GenerateMonthlyExpenses(userID uint, year int, month time.Month, count int) []*models.Expense {
	categories := g.budgets.Categories()
	if len(categories) == 0 || count <= 0 {
		return nil
	}

	daysInMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()

	expenses := make([]*models.Expense, 0, count)
	for i := 0; i < count; i++ {
		category := categories[g.rng.Intn(len(categories))]
		expenses = append(expenses, &models.Expense{
			UserID:      userID,
			Date:        time.Date(year, month, 1+g.rng.Intn(daysInMonth), 0, 0, 0, 0, time.UTC),
			Category:    category,
			AmountCents: g.generateAmountCents(category),
			Description: g.faker.ProductName(),
		})
	}
	return expenses
}

// generateAmountCents draws an amount roughly proportional to the
// category's budget, so seeded months occasionally trip an alert.
func (g *expenseGenerator) generateAmountCents(category string) int64 {
	limit, ok := g.budgets.LimitFor(category)
	if !ok {
		limit = decimal.NewFromInt(100)
	}

	limitFloat, _ := limit.Float64()
	minAmount := limitFloat * 0.02
	maxAmount := limitFloat * 0.40
	amount := minAmount + g.rng.Float64()*(maxAmount-minAmount)

	return models.CentsFromMajor(decimal.NewFromFloat(amount))
}
