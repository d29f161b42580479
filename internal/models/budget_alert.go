package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BudgetAlert is an ephemeral overspend notification for one category.
// Alerts are produced fresh on each dashboard computation and never stored.
type BudgetAlert struct {
	Category string          `json:"category"`
	Budget   decimal.Decimal `json:"budget"`
	Spent    decimal.Decimal `json:"spent"`
	Message  string          `json:"message"`
}

// NewBudgetAlert builds an alert for a category whose spend exceeded its
// configured ceiling. Spend is given in cents; the budget keeps the value
// exactly as configured.
func NewBudgetAlert(category string, budget decimal.Decimal, spentCents int64) BudgetAlert {
	spent := MajorFromCents(spentCents)
	return BudgetAlert{
		Category: category,
		Budget:   budget,
		Spent:    spent,
		Message: fmt.Sprintf("Overspent on %s: spent %s, budget was %s",
			category, spent.StringFixed(2), budget.String()),
	}
}
