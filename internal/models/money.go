package models

import "github.com/shopspring/decimal"

var centsPerUnit = decimal.NewFromInt(100)

// CentsFromMajor converts a major-unit amount to integer cents, rounding
// half away from zero to the nearest cent.
func CentsFromMajor(amount decimal.Decimal) int64 {
	return amount.Mul(centsPerUnit).Round(0).IntPart()
}

// MajorFromCents converts integer cents back to a major-unit amount.
// The division is exact, so 1230 cents round-trips to 12.30.
func MajorFromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(centsPerUnit)
}

// MajorFloatFromCents converts integer cents to a major-unit float for
// response payloads. All accumulation happens in cents; floats only appear
// at this boundary.
func MajorFloatFromCents(cents int64) float64 {
	f, _ := MajorFromCents(cents).Float64()
	return f
}
