package decimal_math

import (
	"math"

	"github.com/shopspring/decimal"
)

// Ln computes the natural logarithm of x. Curve arguments stay inside
// [1, 10], where the float64 round trip carries ~1e-15 relative error.
func Ln(x decimal.Decimal) decimal.Decimal {
	f, _ := x.Float64()
	return decimal.NewFromFloat(math.Log(f))
}

// Log10 computes the base-10 logarithm of x.
func Log10(x decimal.Decimal) decimal.Decimal {
	f, _ := x.Float64()
	return decimal.NewFromFloat(math.Log10(f))
}
