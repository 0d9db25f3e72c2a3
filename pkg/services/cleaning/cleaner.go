package cleaning

import (
	"context"
	"strings"
	"unicode"

	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Epsilon guards the per-row ratios computed while cleaning campaigns.
const Epsilon = 1e-10

const UnknownCampaign = "Unknown Campaign"

var (
	campaignOutlierColumns = []string{
		domain.ColCost, domain.ColImpressions, domain.ColClicks, domain.ColConversions, domain.ColRevenue,
	}
	customerOutlierColumns = []string{
		domain.ColAge, domain.ColSessions, domain.ColAvgSessionDuration,
		domain.ColPagesPerSession, domain.ColTransactions, domain.ColRevenue,
	}
)

type Cleaner struct {
	settings config.MetricsSettings
}

func NewCleaner(settings config.MetricsSettings) *Cleaner {
	return &Cleaner{settings: settings}
}

func requireNumeric(f *frame.Frame, columns ...string) error {
	var missing []string
	for _, c := range columns {
		if _, ok := f.Numeric(c); !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errs.Validation("missing required columns: [%s]", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Cleaner) impute(ctx context.Context, f *frame.Frame, table string, skip ...string) *frame.Frame {
	out, degenerate := FillMissing(f, skip...)
	if len(degenerate) > 0 {
		zerolog.Ctx(ctx).Warn().
			Str("table", table).
			Strs("columns", degenerate).
			Msg("columns have no values to impute from, left missing")
	}
	return out
}

// CleanCampaigns imputes, deduplicates and clips campaign rows, then adds the
// epsilon-guarded ratio columns and normalises campaign names.
func (c *Cleaner) CleanCampaigns(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	logger := zerolog.Ctx(ctx)
	if err := requireNumeric(f, campaignOutlierColumns...); err != nil {
		return nil, err
	}

	// dates stay missing rather than taking the most common date
	out := c.impute(ctx, f, "campaigns", domain.ColDate)
	before := out.Len()
	out = out.DropDuplicates()
	out = ClipOutliers(out, campaignOutlierColumns, c.settings.OutlierThreshold)

	if err := addCampaignMetrics(out); err != nil {
		return nil, err
	}
	if err := normalizeCampaignNames(out); err != nil {
		return nil, err
	}

	logger.Info().
		Int("records", out.Len()).
		Int("duplicates_removed", before-out.Len()).
		Msg("cleaned campaign data")
	return out, nil
}

func addCampaignMetrics(f *frame.Frame) error {
	cost, _ := f.Numeric(domain.ColCost)
	impressions, _ := f.Numeric(domain.ColImpressions)
	clicks, _ := f.Numeric(domain.ColClicks)
	conversions, _ := f.Numeric(domain.ColConversions)
	revenue, _ := f.Numeric(domain.ColRevenue)

	n := f.Len()
	ctr := make([]float64, n)
	conversionRate := make([]float64, n)
	costPerClick := make([]float64, n)
	costPerConversion := make([]float64, n)
	roi := make([]float64, n)
	roas := make([]float64, n)

	for i := 0; i < n; i++ {
		ctr[i] = clicks[i] / (impressions[i] + Epsilon) * 100
		conversionRate[i] = conversions[i] / (clicks[i] + Epsilon) * 100
		costPerClick[i] = cost[i] / (clicks[i] + Epsilon)
		costPerConversion[i] = cost[i] / (conversions[i] + Epsilon)
		roi[i] = (revenue[i] - cost[i]) / (cost[i] + Epsilon) * 100
		roas[i] = revenue[i] / (cost[i] + Epsilon)
	}

	columns := []struct {
		name   string
		values []float64
	}{
		{domain.ColCTR, ctr},
		{domain.ColConversionRate, conversionRate},
		{domain.ColCostPerClick, costPerClick},
		{domain.ColCostPerConversion, costPerConversion},
		{domain.ColROI, roi},
		{domain.ColROAS, roas},
	}
	for _, c := range columns {
		if err := f.SetNumeric(c.name, c.values); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeCampaignName collapses whitespace runs to a single space and
// title-cases the name: a letter is upper-cased when it does not follow another
// cased letter and lower-cased otherwise, so "o'neil 2nd" becomes "O'Neil 2Nd".
func NormalizeCampaignName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	prevCased := false
	for i, word := range strings.Fields(name) {
		if i > 0 {
			b.WriteByte(' ')
		}
		for _, r := range word {
			cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
			switch {
			case cased && prevCased:
				r = unicode.ToLower(r)
			case cased:
				r = unicode.ToTitle(r)
			}
			b.WriteRune(r)
			prevCased = cased
		}
		prevCased = false
	}
	return b.String()
}

func normalizeCampaignNames(f *frame.Frame) error {
	names, valid, ok := f.Categorical(domain.ColCampaignName)
	if !ok {
		return nil
	}
	for i := range names {
		if !valid[i] {
			names[i] = UnknownCampaign
			valid[i] = true
			continue
		}
		names[i] = NormalizeCampaignName(names[i])
	}
	return f.SetCategorical(domain.ColCampaignName, names, valid)
}

// CleanCustomers imputes and deduplicates customer rows, drops rows under the
// session or revenue thresholds, clips outliers and upper-cases gender and
// country. Thresholds are applied to pre-clip values.
func (c *Cleaner) CleanCustomers(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	logger := zerolog.Ctx(ctx)
	if err := requireNumeric(f, domain.ColSessions, domain.ColRevenue); err != nil {
		return nil, err
	}

	out := c.impute(ctx, f, "customers")
	out = out.DropDuplicates()

	sessions, _ := out.Numeric(domain.ColSessions)
	revenue, _ := out.Numeric(domain.ColRevenue)
	deduped := out.Len()
	out = out.Filter(func(row int) bool {
		return sessions[row] >= c.settings.MinSessions && revenue[row] >= c.settings.MinRevenue
	})

	out = ClipOutliers(out, customerOutlierColumns, c.settings.OutlierThreshold)

	upper := cases.Upper(language.Und)
	for _, name := range []string{domain.ColGender, domain.ColCountry} {
		values, valid, ok := out.Categorical(name)
		if !ok {
			continue
		}
		for i := range values {
			if valid[i] {
				values[i] = upper.String(values[i])
			}
		}
		if err := out.SetCategorical(name, values, valid); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Int("records", out.Len()).
		Int("below_threshold", deduped-out.Len()).
		Msg("cleaned customer data")
	return out, nil
}
