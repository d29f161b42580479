package dto

import "expense-tracker-api/internal/models"

// DashboardParams contains the query parameters for the dashboard view
type DashboardParams struct {
	Year  int `query:"year"`
	Month int `query:"month"`
}

// DashboardResponse combines the monthly summary with budget alerts and
// the year dropdown data for one user and calendar month.
type DashboardResponse struct {
	Summary models.MonthlySummary `json:"summary"`
	Alerts  []models.BudgetAlert  `json:"alerts"`
	Years   []int                 `json:"years"`
}
