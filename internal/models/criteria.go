package models

import "time"

// ExpenseCriteria is an ephemeral query descriptor for expense listing and
// aggregation: one owning user and a half-open date window [From, To).
// It is constructed fresh per call and never persisted.
type ExpenseCriteria struct {
	UserID uint
	From   time.Time
	To     time.Time
}

// MonthWindow builds the criteria covering one calendar month for a user.
// The window is [first day of month, first day of next month); December
// rolls over to January of the next year.
func MonthWindow(userID uint, year int, month time.Month) ExpenseCriteria {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return ExpenseCriteria{
		UserID: userID,
		From:   from,
		To:     from.AddDate(0, 1, 0),
	}
}
