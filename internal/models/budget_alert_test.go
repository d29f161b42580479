package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewBudgetAlert(t *testing.T) {
	budget := decimal.NewFromInt(300)
	alert := NewBudgetAlert("Groceries", budget, 31250)

	assert.Equal(t, "Groceries", alert.Category)
	assert.True(t, alert.Budget.Equal(budget))
	assert.True(t, alert.Spent.Equal(decimal.RequireFromString("312.50")))
	assert.Equal(t, "Overspent on Groceries: spent 312.50, budget was 300", alert.Message)
}

func TestNewBudgetAlert_FractionalBudget(t *testing.T) {
	budget := decimal.RequireFromString("120.50")
	alert := NewBudgetAlert("Transport", budget, 12051)

	assert.Equal(t, "Overspent on Transport: spent 120.51, budget was 120.5", alert.Message)
}
