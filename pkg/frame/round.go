package frame

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds v to the given number of decimal places the way numpy does:
// v is scaled by 10^places in binary floating point, the product is rounded
// half to even, and the result scaled back. 2.675 therefore rounds to 2.67.
// Non-finite values are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow10(int(places))
	scaled := v * scale
	if math.IsInf(scaled, 0) {
		return v
	}
	return decimal.NewFromFloat(scaled).RoundBank(0).InexactFloat64() / scale
}
