package cleaning

import (
	"math"
	"slices"

	"github.com/de-tools/campaign-atlas/pkg/frame"
)

// FillMissing replaces missing numeric values with the column median and
// missing categorical values with the column mode (ties go to the
// lexicographically smallest value). Columns with no present value cannot be
// imputed; they are returned unchanged and their names reported as degenerate.
// Columns named in skip are never imputed.
func FillMissing(f *frame.Frame, skip ...string) (*frame.Frame, []string) {
	out := f.Clone()
	var degenerate []string

	for _, name := range out.Names() {
		if slices.Contains(skip, name) {
			continue
		}
		kind, _ := out.Kind(name)
		switch kind {
		case frame.KindNumeric:
			values, _ := out.Numeric(name)
			median := frame.Median(values)
			if math.IsNaN(median) {
				if len(values) > 0 {
					degenerate = append(degenerate, name)
				}
				continue
			}
			for i, v := range values {
				if math.IsNaN(v) {
					values[i] = median
				}
			}
			_ = out.SetNumeric(name, values)

		case frame.KindCategorical:
			values, valid, _ := out.Categorical(name)
			mode, ok := frame.Mode(values, valid)
			if !ok {
				if len(values) > 0 {
					degenerate = append(degenerate, name)
				}
				continue
			}
			for i := range values {
				if !valid[i] {
					values[i] = mode
					valid[i] = true
				}
			}
			_ = out.SetCategorical(name, values, valid)
		}
	}
	return out, degenerate
}
