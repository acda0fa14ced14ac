package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

// calcPlaces is the working precision for intermediate money and rate values.
// Products of decimals otherwise grow without bound across a multi-decade monthly loop.
const calcPlaces = 12

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// MonthlyRate converts an effective annual rate to the equivalent effective monthly rate,
// (1+r)^(1/12) - 1.
func MonthlyRate(annual decimal.Decimal) decimal.Decimal {
	return fractionalPow(one.Add(annual), 1.0/12.0).Sub(one).Round(16)
}

// fractionalPow computes base^exp for a non-integer exponent. decimal.Pow only supports
// integer exponents, so the power is taken in float64 and converted back.
func fractionalPow(base decimal.Decimal, exp float64) decimal.Decimal {
	b, _ := base.Float64()
	return decimal.NewFromFloat(math.Pow(b, exp))
}

// nonNeg clamps d at zero.
func nonNeg(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// mulRound multiplies and rounds to working precision.
func mulRound(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(calcPlaces)
}
