package adapters

import (
	"math"

	"github.com/de-tools/campaign-atlas/pkg/models/api"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

// finite returns nil for NaN and infinities, which JSON cannot encode.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func MapChannelSummaryToAPI(c domain.ChannelSummary) api.ChannelSummary {
	return api.ChannelSummary{
		Channel:            c.Channel,
		Cost:               c.Cost,
		Revenue:            c.Revenue,
		Conversions:        c.Conversions,
		Profit:             c.Profit,
		ROI:                finite(c.ROI),
		ROAS:               finite(c.ROAS),
		Impressions:        c.Impressions,
		Clicks:             c.Clicks,
		ProfitContribution: finite(c.ProfitContribution),
		CTR:                finite(c.CTR),
		ConversionRate:     finite(c.ConversionRate),
	}
}

func MapChannelSummariesToAPI(channels []domain.ChannelSummary) []api.ChannelSummary {
	out := make([]api.ChannelSummary, 0, len(channels))
	for _, c := range channels {
		out = append(out, MapChannelSummaryToAPI(c))
	}
	return out
}

func mapRanks(ranks []domain.CampaignRank) []api.CampaignRank {
	out := make([]api.CampaignRank, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, api.CampaignRank{
			CampaignName: r.CampaignName,
			Channel:      r.Channel,
			Cost:         r.Cost,
			Revenue:      r.Revenue,
			ROI:          finite(r.ROI),
		})
	}
	return out
}

func MapROIReportToAPI(r *domain.ROIReport) *api.ROIReport {
	if r == nil {
		return nil
	}
	return &api.ROIReport{
		Overall: api.OverallMetrics{
			TotalCost:    r.Overall.TotalCost,
			TotalRevenue: r.Overall.TotalRevenue,
			TotalProfit:  r.Overall.TotalProfit,
			OverallROI:   finite(r.Overall.OverallROI),
			OverallROAS:  finite(r.Overall.OverallROAS),
		},
		Channels:        MapChannelSummariesToAPI(r.Channels),
		TopCampaigns:    mapRanks(r.TopCampaigns),
		BottomCampaigns: mapRanks(r.BottomCampaigns),
	}
}

func MapSegmentProfilesToAPI(profiles []domain.SegmentProfile) []api.SegmentProfile {
	out := make([]api.SegmentProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, api.SegmentProfile{
			Segment:            p.Segment,
			Sessions:           p.Sessions,
			PagesPerSession:    p.PagesPerSession,
			Transactions:       p.Transactions,
			AvgSessionDuration: p.AvgSessionDuration,
			RevenueMean:        p.RevenueMean,
			RevenueSum:         p.RevenueSum,
			Customers:          p.Customers,
			Percentage:         p.Percentage,
		})
	}
	return out
}

func MapQualityReportToAPI(r domain.DataQualityReport) api.DataQualityReport {
	stats := make(map[string]api.ColumnStats, len(r.NumericStats))
	for name, s := range r.NumericStats {
		stats[name] = api.ColumnStats{
			Count: s.Count,
			Mean:  finite(s.Mean),
			Std:   finite(s.Std),
			Min:   finite(s.Min),
			P25:   finite(s.P25),
			P50:   finite(s.P50),
			P75:   finite(s.P75),
			Max:   finite(s.Max),
		}
	}
	return api.DataQualityReport{
		TotalRecords:  r.TotalRecords,
		MissingValues: r.MissingValues,
		Duplicates:    r.Duplicates,
		NumericStats:  stats,
	}
}

func MapRunToAPI(r domain.PipelineRun) api.PipelineRun {
	return api.PipelineRun{
		ID:              r.ID,
		Status:          string(r.Status),
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		CampaignRecords: r.CampaignRecords,
		CustomerRecords: r.CustomerRecords,
		Warnings:        r.Warnings,
		Error:           r.Error,
	}
}

func MapRunsToAPI(runs []domain.PipelineRun) []api.PipelineRun {
	out := make([]api.PipelineRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, MapRunToAPI(r))
	}
	return out
}
