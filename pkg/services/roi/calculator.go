package roi

import (
	"fmt"

	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

// CalculateCampaignROI validates the table and adds roi, profit, roas, cpc,
// cpa and conversion_value. Divisions are unguarded: zero clicks or
// conversions produce +Inf or NaN in the affected cells, which are kept.
func CalculateCampaignROI(f *frame.Frame) (*frame.Frame, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}

	out := f.Clone()
	cost, _ := out.Numeric(domain.ColCost)
	revenue, _ := out.Numeric(domain.ColRevenue)
	clicks, _ := out.Numeric(domain.ColClicks)
	conversions, _ := out.Numeric(domain.ColConversions)

	n := out.Len()
	roi := make([]float64, n)
	profit := make([]float64, n)
	roas := make([]float64, n)
	cpc := make([]float64, n)
	cpa := make([]float64, n)
	conversionValue := make([]float64, n)

	for i := 0; i < n; i++ {
		roi[i] = (revenue[i] - cost[i]) / cost[i] * 100
		profit[i] = revenue[i] - cost[i]
		roas[i] = revenue[i] / cost[i]
		cpc[i] = cost[i] / clicks[i]
		cpa[i] = cost[i] / conversions[i]
		conversionValue[i] = revenue[i] / conversions[i]
	}

	columns := []struct {
		name   string
		values []float64
	}{
		{domain.ColROI, roi},
		{domain.ColProfit, profit},
		{domain.ColROAS, roas},
		{domain.ColCPC, cpc},
		{domain.ColCPA, cpa},
		{domain.ColConversionValue, conversionValue},
	}
	for _, c := range columns {
		if err := out.SetNumeric(c.name, c.values); err != nil {
			return nil, fmt.Errorf("set %s: %w", c.name, err)
		}
	}
	return out, nil
}
