package roi

import (
	"strings"

	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

var channelNumericColumns = []string{
	domain.ColCost, domain.ColRevenue, domain.ColConversions, domain.ColProfit,
	domain.ColROI, domain.ColROAS, domain.ColImpressions, domain.ColClicks,
}

func requireColumns(f *frame.Frame, categorical, numeric []string) error {
	if f == nil || f.Len() == 0 {
		return errs.Validation("empty input: campaign table has no rows")
	}
	if missing := f.Missing(append(append([]string{}, categorical...), numeric...)...); len(missing) > 0 {
		return errs.Validation("missing required columns: [%s]", strings.Join(missing, ", "))
	}
	for _, c := range categorical {
		if kind, _ := f.Kind(c); kind != frame.KindCategorical {
			return errs.Validation("column %s must be categorical", c)
		}
	}
	for _, c := range numeric {
		if kind, _ := f.Kind(c); kind != frame.KindNumeric {
			return errs.Validation("column %s must be numeric", c)
		}
	}
	return nil
}

func pick(values []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = values[r]
	}
	return out
}

// AnalyzeChannelPerformance aggregates ROI results per channel, ordered by
// channel name. Sums and means are rounded to 2 places first; profit
// contribution, ctr and conversion rate are then derived from the rounded
// aggregates. A zero total profit leaves contributions non-finite.
func AnalyzeChannelPerformance(f *frame.Frame) ([]domain.ChannelSummary, error) {
	if err := requireColumns(f, []string{domain.ColChannel}, channelNumericColumns); err != nil {
		return nil, err
	}

	keys, groups, _ := f.GroupBy(domain.ColChannel)

	col := func(name string) []float64 {
		v, _ := f.Numeric(name)
		return v
	}
	cost, revenue, conversions := col(domain.ColCost), col(domain.ColRevenue), col(domain.ColConversions)
	profit, roi, roas := col(domain.ColProfit), col(domain.ColROI), col(domain.ColROAS)
	impressions, clicks := col(domain.ColImpressions), col(domain.ColClicks)

	summaries := make([]domain.ChannelSummary, 0, len(keys))
	totalProfit := 0.0
	for _, channel := range keys {
		rows := groups[channel]
		s := domain.ChannelSummary{
			Channel:     channel,
			Cost:        frame.Round(frame.Sum(pick(cost, rows)), 2),
			Revenue:     frame.Round(frame.Sum(pick(revenue, rows)), 2),
			Conversions: frame.Round(frame.Sum(pick(conversions, rows)), 2),
			Profit:      frame.Round(frame.Sum(pick(profit, rows)), 2),
			ROI:         frame.Round(frame.Mean(pick(roi, rows)), 2),
			ROAS:        frame.Round(frame.Mean(pick(roas, rows)), 2),
			Impressions: frame.Round(frame.Sum(pick(impressions, rows)), 2),
			Clicks:      frame.Round(frame.Sum(pick(clicks, rows)), 2),
		}
		totalProfit += s.Profit
		summaries = append(summaries, s)
	}

	for i := range summaries {
		s := &summaries[i]
		s.ProfitContribution = frame.Round(s.Profit/totalProfit*100, 1)
		s.CTR = frame.Round(s.Clicks/s.Impressions*100, 2)
		s.ConversionRate = frame.Round(s.Conversions/s.Clicks*100, 2)
	}
	return summaries, nil
}
