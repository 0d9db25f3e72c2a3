package roi

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type campaign struct {
	name, channel                                   string
	cost, revenue, impressions, clicks, conversions float64
}

func campaignFrame(t *testing.T, rows ...campaign) *frame.Frame {
	t.Helper()
	n := len(rows)
	names, channels := make([]string, n), make([]string, n)
	cost, revenue := make([]float64, n), make([]float64, n)
	impressions, clicks, conversions := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, r := range rows {
		names[i], channels[i] = r.name, r.channel
		cost[i], revenue[i] = r.cost, r.revenue
		impressions[i], clicks[i], conversions[i] = r.impressions, r.clicks, r.conversions
	}

	f := frame.New()
	require.NoError(t, f.SetCategorical("campaign_name", names, nil))
	require.NoError(t, f.SetCategorical("channel", channels, nil))
	require.NoError(t, f.SetNumeric("cost", cost))
	require.NoError(t, f.SetNumeric("revenue", revenue))
	require.NoError(t, f.SetNumeric("impressions", impressions))
	require.NoError(t, f.SetNumeric("clicks", clicks))
	require.NoError(t, f.SetNumeric("conversions", conversions))
	return f
}

func portfolio(t *testing.T) *frame.Frame {
	t.Helper()
	f := campaignFrame(t,
		campaign{"Alpha", "Email", 100, 300, 1000, 50, 5},
		campaign{"Beta", "Social", 200, 100, 4000, 80, 2},
		campaign{"Gamma", "Email", 50, 100, 500, 25, 5},
		campaign{"Delta", "Search", 400, 1000, 2000, 100, 10},
		campaign{"Epsilon", "Social", 100, 200, 1000, 20, 4},
		campaign{"Zeta", "Search", 100, 100, 1000, 10, 0},
		campaign{"Eta", "Email", 100, 100, 800, 0, 0},
	)
	out, err := CalculateCampaignROI(f)
	require.NoError(t, err)
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		frame   func(t *testing.T) *frame.Frame
		message string
	}{
		{
			name:    "empty input",
			frame:   func(t *testing.T) *frame.Frame { return campaignFrame(t) },
			message: "empty input",
		},
		{
			name: "missing required columns",
			frame: func(t *testing.T) *frame.Frame {
				return campaignFrame(t, campaign{"A", "Email", 1, 1, 1, 1, 1}).Drop("clicks", "channel")
			},
			message: "missing required columns: [channel, clicks]",
		},
		{
			name: "zero cost",
			frame: func(t *testing.T) *frame.Frame {
				return campaignFrame(t,
					campaign{"A", "Email", 100, 1, 1, 1, 1},
					campaign{"B", "Email", 200, 1, 1, 1, 1},
					campaign{"C", "Email", 0, 1, 1, 1, 1},
					campaign{"D", "Email", 400, 1, 1, 1, 1},
				)
			},
			message: "zero/negative cost",
		},
		{
			name: "negative revenue",
			frame: func(t *testing.T) *frame.Frame {
				return campaignFrame(t, campaign{"A", "Email", 10, -1, 1, 1, 1})
			},
			message: "negative revenue",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.frame(t))
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.CodeValidation))
			assert.Contains(t, err.Error(), tc.message)
		})
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(campaignFrame(t, campaign{"A", "Email", 10, 0, 0, 0, 0})))
	})
}

func TestCalculateCampaignROI(t *testing.T) {
	t.Run("refuses to compute on zero cost", func(t *testing.T) {
		f := campaignFrame(t,
			campaign{"A", "Email", 100, 150, 1000, 10, 1},
			campaign{"B", "Email", 200, 150, 1000, 10, 1},
			campaign{"C", "Email", 0, 150, 1000, 10, 1},
			campaign{"D", "Email", 400, 150, 1000, 10, 1},
		)
		out, err := CalculateCampaignROI(f)
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Contains(t, err.Error(), "zero/negative cost")
	})

	t.Run("single campaign metrics", func(t *testing.T) {
		out, err := CalculateCampaignROI(campaignFrame(t, campaign{"A", "Email", 100, 200, 1000, 50, 5}))
		require.NoError(t, err)

		expect := map[string]float64{
			"roi": 100, "profit": 100, "roas": 2, "cpc": 2, "cpa": 20, "conversion_value": 40,
		}
		for col, want := range expect {
			got, ok := out.Numeric(col)
			require.True(t, ok, col)
			assert.Equal(t, want, got[0], col)
		}
	})

	t.Run("division by zero is preserved", func(t *testing.T) {
		out, err := CalculateCampaignROI(campaignFrame(t, campaign{"A", "Email", 10, 0, 100, 0, 0}))
		require.NoError(t, err)

		cpc, _ := out.Numeric("cpc")
		cpa, _ := out.Numeric("cpa")
		value, _ := out.Numeric("conversion_value")
		assert.True(t, math.IsInf(cpc[0], 1))
		assert.True(t, math.IsInf(cpa[0], 1))
		assert.True(t, math.IsNaN(value[0]))
	})
}

func TestAnalyzeChannelPerformance(t *testing.T) {
	summaries, err := AnalyzeChannelPerformance(portfolio(t))
	require.NoError(t, err)

	expected := []domain.ChannelSummary{
		{
			Channel: "Email", Cost: 250, Revenue: 500, Conversions: 10, Profit: 250, ROI: 100, ROAS: 2,
			Impressions: 2300, Clicks: 75, ProfitContribution: 29.4, CTR: 3.26, ConversionRate: 13.33,
		},
		{
			Channel: "Search", Cost: 500, Revenue: 1100, Conversions: 10, Profit: 600, ROI: 75, ROAS: 1.75,
			Impressions: 3000, Clicks: 110, ProfitContribution: 70.6, CTR: 3.67, ConversionRate: 9.09,
		},
		{
			Channel: "Social", Cost: 300, Revenue: 300, Conversions: 6, Profit: 0, ROI: 25, ROAS: 1.25,
			Impressions: 5000, Clicks: 100, ProfitContribution: 0, CTR: 2, ConversionRate: 6,
		},
	}
	assert.Equal(t, expected, summaries)

	t.Run("contributions add up to 100", func(t *testing.T) {
		total := 0.0
		for _, s := range summaries {
			total += s.ProfitContribution
		}
		assert.InDelta(t, 100.0, total, 0.1)
	})

	t.Run("ctr from sums not mean of rows", func(t *testing.T) {
		f := portfolio(t)
		ctrs := []float64{}
		clicks, _ := f.Numeric("clicks")
		impressions, _ := f.Numeric("impressions")
		for _, row := range []int{0, 2, 6} {
			ctrs = append(ctrs, clicks[row]/impressions[row]*100)
		}
		assert.NotEqual(t, frame.Round(frame.Mean(ctrs), 2), summaries[0].CTR)
	})

	t.Run("zero total profit", func(t *testing.T) {
		f, err := CalculateCampaignROI(campaignFrame(t,
			campaign{"A", "Email", 100, 150, 1000, 10, 1},
			campaign{"B", "Social", 100, 50, 1000, 10, 1},
		))
		require.NoError(t, err)

		out, err := AnalyzeChannelPerformance(f)
		require.NoError(t, err)
		assert.True(t, math.IsInf(out[0].ProfitContribution, 1))
		assert.True(t, math.IsInf(out[1].ProfitContribution, -1))
	})

	t.Run("requires roi columns", func(t *testing.T) {
		_, err := AnalyzeChannelPerformance(campaignFrame(t, campaign{"A", "Email", 1, 1, 1, 1, 1}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profit, roi, roas")
	})
}

func TestGenerateROIReport(t *testing.T) {
	report, err := GenerateROIReport(portfolio(t))
	require.NoError(t, err)

	assert.Equal(t, domain.OverallMetrics{
		TotalCost:    1050,
		TotalRevenue: 1900,
		TotalProfit:  850,
		OverallROI:   500.0 / 7,
		OverallROAS:  12.0 / 7,
	}, report.Overall)
	assert.Len(t, report.Channels, 3)

	names := func(ranks []domain.CampaignRank) []string {
		out := make([]string, len(ranks))
		for i, r := range ranks {
			out[i] = r.CampaignName
		}
		return out
	}

	t.Run("top campaigns keep input order on ties", func(t *testing.T) {
		assert.Equal(t, []string{"Alpha", "Delta", "Gamma", "Epsilon", "Zeta"}, names(report.TopCampaigns))
		assert.Equal(t, domain.CampaignRank{
			CampaignName: "Alpha", Channel: "Email", Cost: 100, Revenue: 300, ROI: 200,
		}, report.TopCampaigns[0])
	})

	t.Run("bottom campaigns keep input order on ties", func(t *testing.T) {
		assert.Equal(t, []string{"Beta", "Zeta", "Eta", "Gamma", "Epsilon"}, names(report.BottomCampaigns))
	})

	t.Run("fewer than five campaigns", func(t *testing.T) {
		f, err := CalculateCampaignROI(campaignFrame(t, campaign{"Solo", "Email", 10, 20, 100, 5, 1}))
		require.NoError(t, err)
		small, err := GenerateROIReport(f)
		require.NoError(t, err)
		assert.Len(t, small.TopCampaigns, 1)
		assert.Len(t, small.BottomCampaigns, 1)
	})
}

func TestExportSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportSummary(portfolio(t), &buf))

	g := goldie.New(t)
	g.Assert(t, "summary", buf.Bytes())
}

func TestSummaryRows(t *testing.T) {
	rows, err := SummaryRows(portfolio(t))
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, domain.SummaryRow{Metric: "Total Cost", Value: "$1,050.00"}, rows[0])
	assert.Equal(t, domain.SummaryRow{Metric: "Average ROI", Value: "71.4%"}, rows[3])
	assert.Equal(t, domain.SummaryRow{Metric: "Best Performing Channel", Value: "Email"}, rows[5])
	assert.Equal(t, domain.SummaryRow{Metric: "Worst Performing Channel", Value: "Social"}, rows[6])
}

func TestExportSummaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "roi_summary.csv")
	require.NoError(t, ExportSummaryFile(portfolio(t), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Profit,$850.00\n")
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", formatCurrency(1234567.891))
	assert.Equal(t, "$-1,234.50", formatCurrency(-1234.5))
	assert.Equal(t, "$0.00", formatCurrency(0))
	assert.Equal(t, "$inf", formatCurrency(math.Inf(1)))
}
