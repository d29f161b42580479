package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryBudget is one configured spending ceiling, in major currency
// units, for a single category.
type CategoryBudget struct {
	Name  string
	Limit decimal.Decimal
}

// BudgetConfig holds the category budget mapping loaded once at startup.
// The insertion order of the configuration object is preserved; alert
// generation iterates budgets in this order. The budget keys are also the
// canonical category allow-list for expense creation and CSV import.
type BudgetConfig struct {
	budgets []CategoryBudget
	byName  map[string]decimal.Decimal
}

// ParseBudgets parses a flat JSON object of category name to major-unit
// ceiling, e.g. {"Groceries": 300, "Transport": 120.50}. A token-level
// decode keeps the key order that encoding/json map decoding would lose.
func ParseBudgets(jsonBudgets string) (*BudgetConfig, error) {
	dec := json.NewDecoder(strings.NewReader(jsonBudgets))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid category budgets JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("invalid category budgets JSON: expected object, got %v", tok)
	}

	cfg := &BudgetConfig{byName: make(map[string]decimal.Decimal)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid category budgets JSON: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid category budgets JSON: non-string key %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid category budgets JSON: %w", err)
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("budget for %q must be a number, got %v", name, valTok)
		}
		limit, err := decimal.NewFromString(num.String())
		if err != nil {
			return nil, fmt.Errorf("budget for %q: %w", name, err)
		}

		// A repeated key keeps its original position but takes the new limit
		if _, exists := cfg.byName[name]; exists {
			for i := range cfg.budgets {
				if cfg.budgets[i].Name == name {
					cfg.budgets[i].Limit = limit
					break
				}
			}
		} else {
			cfg.budgets = append(cfg.budgets, CategoryBudget{Name: name, Limit: limit})
		}
		cfg.byName[name] = limit
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid category budgets JSON: %w", err)
	}

	return cfg, nil
}

// Budgets returns the configured budgets in configuration order.
func (c *BudgetConfig) Budgets() []CategoryBudget {
	return c.budgets
}

// LimitFor returns the ceiling for a category, if one is configured.
func (c *BudgetConfig) LimitFor(category string) (decimal.Decimal, bool) {
	limit, ok := c.byName[category]
	return limit, ok
}

// Categories returns the category allow-list in configuration order.
func (c *BudgetConfig) Categories() []string {
	names := make([]string, 0, len(c.budgets))
	for _, b := range c.budgets {
		names = append(names, b.Name)
	}
	return names
}

// IsAllowedCategory reports whether a category is part of the allow-list.
func (c *BudgetConfig) IsAllowedCategory(category string) bool {
	_, ok := c.byName[category]
	return ok
}
