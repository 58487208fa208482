package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for amounts.
const MoneyScale = 2

const (
	// maxAmountText bounds the textual form accepted by ParseAmount.
	maxAmountText = 32
	// maxIntegerDigits matches the NUMERIC(14,2) amount columns.
	maxIntegerDigits = 12
	// maxExponentDigits bounds the exponent before anything rescales the
	// value; larger exponents would allocate a 10^N intermediate.
	maxExponentDigits = 20
)

// MaxAmount is the largest amount the stores can hold.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// ParseAmount parses a decimal amount from its textual form.
// Surrounding quotes and whitespace are ignored, so both JSON numbers and
// JSON strings are accepted.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(strings.TrimPrefix(s, `"`), `"`)
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return decimal.Zero, NewValidationError(field, "is required")
	}
	if len(s) > maxAmountText {
		return decimal.Zero, NewValidationError(field, "is too long")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewValidationError(field, "must be numeric")
	}
	return d, nil
}

// ValidateAmount checks that an amount is positive, at most MaxAmount and
// has at most two fractional digits. Magnitude is checked from the exponent
// and digit count first, since Round and Cmp rescale the value.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewValidationError(field, "must be greater than zero")
	}
	exp := int(amount.Exponent())
	if exp > maxExponentDigits || amount.NumDigits()+exp > maxIntegerDigits {
		return NewValidationError(field, "is too large")
	}
	if exp < -maxExponentDigits || !amount.Equal(amount.Round(MoneyScale)) {
		return NewValidationError(field, "must have at most 2 decimal places")
	}
	if amount.GreaterThan(MaxAmount) {
		return NewValidationError(field, "is too large")
	}
	return nil
}

// ToMinor converts an amount to integer minor units (cents, paisa).
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Shift(MoneyScale).Round(0).IntPart()
}

// FromMinor converts integer minor units back to an amount.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -MoneyScale)
}

// FormatAmount renders an amount with exactly two fractional digits.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyScale)
}
