package api

// Non-finite ratios (zero cost, zero clicks) are reported as null.

type ChannelSummary struct {
	Channel            string   `json:"channel"`
	Cost               float64  `json:"cost"`
	Revenue            float64  `json:"revenue"`
	Conversions        float64  `json:"conversions"`
	Profit             float64  `json:"profit"`
	ROI                *float64 `json:"roi"`
	ROAS               *float64 `json:"roas"`
	Impressions        float64  `json:"impressions"`
	Clicks             float64  `json:"clicks"`
	ProfitContribution *float64 `json:"profit_contribution"`
	CTR                *float64 `json:"ctr"`
	ConversionRate     *float64 `json:"conversion_rate"`
}

type OverallMetrics struct {
	TotalCost    float64  `json:"total_cost"`
	TotalRevenue float64  `json:"total_revenue"`
	TotalProfit  float64  `json:"total_profit"`
	OverallROI   *float64 `json:"overall_roi"`
	OverallROAS  *float64 `json:"overall_roas"`
}

type CampaignRank struct {
	CampaignName string   `json:"campaign_name"`
	Channel      string   `json:"channel"`
	Cost         float64  `json:"cost"`
	Revenue      float64  `json:"revenue"`
	ROI          *float64 `json:"roi"`
}

type ROIReport struct {
	Overall         OverallMetrics   `json:"overall_metrics"`
	Channels        []ChannelSummary `json:"channel_performance"`
	TopCampaigns    []CampaignRank   `json:"top_campaigns"`
	BottomCampaigns []CampaignRank   `json:"bottom_campaigns"`
}

type SummaryRow struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}
