package domain

import "time"

const (
	ColCampaignName = "campaign_name"
	ColChannel      = "channel"
	ColCost         = "cost"
	ColImpressions  = "impressions"
	ColClicks       = "clicks"
	ColConversions  = "conversions"
	ColRevenue      = "revenue"
	ColDate         = "date"

	ColCTR               = "ctr"
	ColConversionRate    = "conversion_rate"
	ColCostPerClick      = "cost_per_click"
	ColCostPerConversion = "cost_per_conversion"
	ColROI               = "roi"
	ColROAS              = "roas"
	ColProfit            = "profit"
	ColCPC               = "cpc"
	ColCPA               = "cpa"
	ColConversionValue   = "conversion_value"
)

// CampaignNumericColumns lists the campaign columns held as numbers.
var CampaignNumericColumns = []string{ColCost, ColImpressions, ColClicks, ColConversions, ColRevenue}

// CampaignRecord is a raw campaign row. Nil fields are missing in the source.
type CampaignRecord struct {
	CampaignName *string
	Channel      *string
	Cost         *float64
	Impressions  *float64
	Clicks       *float64
	Conversions  *float64
	Revenue      *float64
	Date         *time.Time
}
