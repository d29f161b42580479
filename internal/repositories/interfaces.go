package repositories

import (
	"expense-tracker-api/internal/models"

	"gorm.io/gorm"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

// ExpenseRepositoryInterface defines the contract for expense repository
// operations. Criteria-based methods filter on one user and a half-open
// date window; all aggregate amounts are integer cents.
type ExpenseRepositoryInterface interface {
	Create(expense *models.Expense) error
	GetByID(id uint) (*models.Expense, error)
	FindByCriteria(criteria models.ExpenseCriteria, offset, limit int) ([]models.Expense, int64, error)
	Update(expense *models.Expense) error
	Delete(id uint) error

	SumAmounts(criteria models.ExpenseCriteria) (int64, error)
	SumAmountsByCategory(criteria models.ExpenseCriteria) (map[string]int64, error)
	AverageAmountsByCategory(criteria models.ExpenseCriteria) (map[string]int64, error)
	ListExpenditureYears(userID uint) ([]int, error)

	// WithTx returns a repository bound to the given transaction handle.
	// Used by the CSV importer to keep all row inserts in one transaction.
	WithTx(tx *gorm.DB) ExpenseRepositoryInterface
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}
