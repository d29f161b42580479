package services

import (
	"io"
	"time"

	"expense-tracker-api/internal/dto"
	"expense-tracker-api/internal/models"
)

// AuthServiceInterface defines authentication business operations
type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest) (*models.User, error)
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(userID uint, jti string, expiresAt time.Time) error
}

// UserServiceInterface exposes user profile lookups
type UserServiceInterface interface {
	GetByID(userID uint) (*models.User, error)
}

// PasswordServiceInterface handles password hashing and verification
type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// TokenServiceInterface issues and validates JWT access tokens
type TokenServiceInterface interface {
	GenerateToken(user *models.User) (string, *models.CustomClaims, error)
	ValidateToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

// ExpenseServiceInterface defines expense CRUD operations. Every call
// takes the acting user explicitly; there is no ambient current-user
// state. Reading or mutating a foreign expense fails with
// ErrExpenseNotOwned.
type ExpenseServiceInterface interface {
	List(userID uint, year int, month time.Month, page, pageSize int) ([]models.Expense, int64, error)
	GetForUser(userID, expenseID uint) (*models.Expense, error)
	Create(userID uint, amount float64, description string, date time.Time, category string) (*models.Expense, error)
	Update(userID, expenseID uint, amount float64, description string, date time.Time, category string) (*models.Expense, error)
	Delete(userID, expenseID uint) error
	ListExpenditureYears(userID uint) ([]int, error)
}

// SummaryServiceInterface computes the monthly aggregation views: total
// expenditure, per-category totals and per-category averages, each with
// its percentage of the monthly total.
type SummaryServiceInterface interface {
	ComputeMonthlySummary(userID uint, year int, month time.Month) (*models.MonthlySummary, error)
}

// AlertServiceInterface compares per-category spend against the
// configured budget ceilings and emits overspend alerts.
type AlertServiceInterface interface {
	Generate(userID uint, year int, month time.Month) ([]models.BudgetAlert, error)
}

// ImportServiceInterface ingests a CSV stream of expenses for one user,
// skipping invalid rows and committing all valid ones in a single
// transaction.
type ImportServiceInterface interface {
	ImportCSV(userID uint, csvData io.Reader) (*ImportResult, error)
}

// ExpenseGeneratorInterface generates realistic expense data for
// development seeding
type ExpenseGeneratorInterface interface {
	GenerateMonthlyExpenses(userID uint, year int, month time.Month, count int) []*models.Expense
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
