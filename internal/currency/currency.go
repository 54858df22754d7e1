// Package currency converts marketplace prices into the display currency.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Display is the currency every price is shown in.
const Display = "GBP"

// ErrUnsupportedCurrency is returned for currency codes without a rate.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Fixed multiplicative rates into the display currency.
var rates = map[string]decimal.Decimal{
	"USD": decimal.RequireFromString("0.79"),
	"EUR": decimal.RequireFromString("0.85"),
	"GBP": decimal.NewFromInt(1),
}

// Supported reports whether code has a conversion rate.
func Supported(code string) bool {
	_, ok := rates[code]
	return ok
}

// Convert returns amount, given in currency from, expressed in the display
// currency and rounded half away from zero to 2 decimal places. Negative
// amounts are treated as 0.
func Convert(amount float64, from string) (float64, error) {
	rate, ok := rates[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, from)
	}
	if amount <= 0 {
		return 0, nil
	}
	out, _ := decimal.NewFromFloat(amount).Mul(rate).Round(2).Float64()
	return out, nil
}

// Format renders a display-currency amount, e.g. "£79.00".
func Format(amount float64) string {
	return "£" + decimal.NewFromFloat(amount).StringFixed(2)
}
