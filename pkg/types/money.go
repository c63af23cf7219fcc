package types

import "github.com/shopspring/decimal"

// Money is an amount in integer cents. Arithmetic stays in cents; decimal
// conversion happens only at the display boundary.
type Money int64

// Amount returns the value in major units.
func (m Money) Amount() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String renders the amount with two decimal places, e.g. "150.00".
func (m Money) String() string {
	return m.Amount().StringFixed(2)
}

// Cents returns the raw cent value.
func (m Money) Cents() int64 {
	return int64(m)
}
