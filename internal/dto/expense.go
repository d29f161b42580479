package dto

import "time"

// Expense Request DTOs

// CreateExpenseRequest contains the form data for recording an expense.
// The amount is given in major currency units.
type CreateExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	Category    string  `json:"category" validate:"required"`
}

// UpdateExpenseRequest is a full replace of an expense's mutable fields
type UpdateExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	Category    string  `json:"category" validate:"required"`
}

// ListExpensesParams contains the query parameters for listing expenses
type ListExpensesParams struct {
	Year     int `query:"year"`
	Month    int `query:"month"`
	Page     int `query:"page"`
	PageSize int `query:"pageSize"`
}

// Expense Response DTOs

// ExpenseResponse is a single expense as returned by the API
type ExpenseResponse struct {
	ID          uint      `json:"id"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListExpensesResponse represents a page of expenses
type ListExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// ImportResponse reports the outcome of a CSV import. Skipped rows are
// only visible in the aggregate counters; the import itself still
// succeeds with ImportedCount 0 when no valid rows were found.
type ImportResponse struct {
	ImportedCount int            `json:"importedCount"`
	SkippedCount  int            `json:"skippedCount"`
	SkipReasons   map[string]int `json:"skipReasons,omitempty"`
}
