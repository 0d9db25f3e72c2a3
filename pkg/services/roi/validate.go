package roi

import (
	"math"
	"strings"

	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

var RequiredColumns = []string{
	domain.ColCampaignName,
	domain.ColChannel,
	domain.ColCost,
	domain.ColRevenue,
	domain.ColImpressions,
	domain.ColClicks,
	domain.ColConversions,
}

// Validate rejects campaign tables that ROI metrics cannot be computed from.
// Checks run in order: empty input, missing required columns, zero/negative
// cost, negative revenue.
func Validate(f *frame.Frame) error {
	if f == nil || f.Len() == 0 {
		return errs.Validation("empty input: campaign table has no rows")
	}

	if missing := f.Missing(RequiredColumns...); len(missing) > 0 {
		return errs.Validation("missing required columns: [%s]", strings.Join(missing, ", "))
	}

	for _, col := range []string{domain.ColCost, domain.ColRevenue, domain.ColImpressions, domain.ColClicks, domain.ColConversions} {
		if _, ok := f.Numeric(col); !ok {
			return errs.Validation("column %s must be numeric", col)
		}
	}

	cost, _ := f.Numeric(domain.ColCost)
	if n := countWhere(cost, func(v float64) bool { return v <= 0 }); n > 0 {
		return errs.Validation("zero/negative cost: found %d campaigns with zero or negative cost", n)
	}

	revenue, _ := f.Numeric(domain.ColRevenue)
	if n := countWhere(revenue, func(v float64) bool { return v < 0 }); n > 0 {
		return errs.Validation("negative revenue: found %d campaigns with negative revenue", n)
	}
	return nil
}

func countWhere(values []float64, pred func(float64) bool) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) && pred(v) {
			n++
		}
	}
	return n
}
