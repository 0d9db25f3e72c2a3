package domain

const ColProfitContribution = "profit_contribution"

// ChannelSummary aggregates campaign performance for one channel.
// Sums and means are rounded to 2 places, ProfitContribution to 1.
type ChannelSummary struct {
	Channel            string
	Cost               float64
	Revenue            float64
	Conversions        float64
	Profit             float64
	ROI                float64 // mean of row roi
	ROAS               float64 // mean of row roas
	Impressions        float64
	Clicks             float64
	ProfitContribution float64 // share of total profit, percent
	CTR                float64 // sum(clicks)/sum(impressions)*100
	ConversionRate     float64 // sum(conversions)/sum(clicks)*100
}

type OverallMetrics struct {
	TotalCost    float64
	TotalRevenue float64
	TotalProfit  float64
	OverallROI   float64
	OverallROAS  float64
}

type CampaignRank struct {
	CampaignName string
	Channel      string
	Cost         float64
	Revenue      float64
	ROI          float64
}

type ROIReport struct {
	Overall         OverallMetrics
	Channels        []ChannelSummary
	TopCampaigns    []CampaignRank
	BottomCampaigns []CampaignRank
}

// SummaryRow is one metric/value pair of the exported summary table.
type SummaryRow struct {
	Metric string
	Value  string
}
