package models

import "time"

// CategoryBreakdown pairs a major-unit value with its share of the month's
// total expenditure. The percentage is 0 whenever the total is 0.
type CategoryBreakdown struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// MonthlySummary contains the aggregated dashboard views for one user and
// calendar month: total expenditure, per-category totals and per-category
// averages, all in major units.
type MonthlySummary struct {
	Year             int                          `json:"year"`
	Month            time.Month                   `json:"month"`
	TotalExpenditure float64                      `json:"total_expenditure"`
	CategoryTotals   map[string]CategoryBreakdown `json:"category_totals"`
	CategoryAverages map[string]CategoryBreakdown `json:"category_averages"`
}
