// Package decimalx provides the one rounding primitive the tax engine needs
// that shopspring/decimal does not expose directly: round half away from
// zero at a fixed number of fractional digits.
package decimalx

import "github.com/shopspring/decimal"

// RoundHalfUp rounds d to places fractional digits, rounding a tied value
// away from zero (never toward even, never toward zero).
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	if d.IsZero() {
		return d.Truncate(places)
	}

	neg := d.IsNegative()
	abs := d.Abs()

	// Shift the decimal point by "places" exactly (no division, so no
	// rounding artifacts from shopspring/decimal's default division
	// precision), then round the now-integral tail half-up.
	scaled := abs.Shift(places)
	floor := scaled.Truncate(0)
	frac := scaled.Sub(floor)

	half := decimal.NewFromFloat(0.5)
	if frac.Cmp(half) >= 0 {
		floor = floor.Add(decimal.NewFromInt(1))
	}

	result := floor.Shift(-places)
	if neg {
		result = result.Neg()
	}
	return result
}

// Money2 rounds to the 2-fractional-digit discipline used for subtotal, tax,
// and total amounts.
func Money2(d decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(d, 2)
}

// Rate4 rounds to the 4-fractional-digit discipline used for rate fields.
func Rate4(d decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(d, 4)
}
