package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrAmountNotPositive   = errors.New("expense amount must be positive")
	ErrDescriptionRequired = errors.New("expense description is required")
	ErrCategoryRequired    = errors.New("expense category is required")
	ErrDateRequired        = errors.New("expense date is required")
	ErrUserRequired        = errors.New("expense owner is required")
)

// Expense represents a single dated, categorized expense owned by one user.
// Amounts are stored as integer cents; conversion to major units happens
// only at the API boundary.
type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	Category    string    `gorm:"type:varchar(100);not null" json:"category"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate hook for Expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	return e.Validate()
}

// BeforeUpdate hook for Expense
func (e *Expense) BeforeUpdate(tx *gorm.DB) error {
	// Map-based updates carry an empty struct; skip full validation
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	e.UpdatedAt = time.Now()
	return e.Validate()
}

// Validate checks the expense invariants: positive amount, non-blank
// description and category, a date, and an owning user.
func (e *Expense) Validate() error {
	if e.UserID == 0 {
		return ErrUserRequired
	}
	if e.AmountCents <= 0 {
		return ErrAmountNotPositive
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrDescriptionRequired
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrCategoryRequired
	}
	if e.Date.IsZero() {
		return ErrDateRequired
	}
	return nil
}

// IsOwnedBy reports whether the expense belongs to the given user.
func (e *Expense) IsOwnedBy(userID uint) bool {
	return e.UserID == userID
}

// AmountMajor returns the amount in major currency units.
func (e *Expense) AmountMajor() float64 {
	return MajorFloatFromCents(e.AmountCents)
}

// TableName returns the table name for Expense
func (e *Expense) TableName() string {
	return "expenses"
}
