package cleaning

import (
	"math"

	"github.com/de-tools/campaign-atlas/pkg/frame"
)

// Bounds returns the IQR fences [Q1-k*IQR, Q3+k*IQR] of the non-NaN values.
// ok is false when the column has no present value.
func Bounds(values []float64, k float64) (lower, upper float64, ok bool) {
	q1 := frame.Quantile(values, 0.25)
	q3 := frame.Quantile(values, 0.75)
	if math.IsNaN(q1) || math.IsNaN(q3) {
		return 0, 0, false
	}
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr, true
}

// ClipOutliers clamps every value of the listed numeric columns to its IQR
// fences. Absent and categorical columns are skipped; NaN stays NaN.
func ClipOutliers(f *frame.Frame, columns []string, k float64) *frame.Frame {
	out := f.Clone()
	for _, name := range columns {
		values, ok := out.Numeric(name)
		if !ok {
			continue
		}
		lower, upper, ok := Bounds(values, k)
		if !ok {
			continue
		}
		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			values[i] = math.Min(math.Max(v, lower), upper)
		}
		// lengths match by construction
		_ = out.SetNumeric(name, values)
	}
	return out
}
