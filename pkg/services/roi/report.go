package roi

import (
	"math"
	"sort"

	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

const rankSize = 5

// GenerateROIReport summarises an ROI table: overall totals and means, the
// channel breakdown and the five best and worst campaigns by roi. Rankings
// use a stable sort so equal roi values keep their input order. Rows with an
// undefined roi are not ranked.
func GenerateROIReport(f *frame.Frame) (domain.ROIReport, error) {
	if err := requireColumns(f, []string{domain.ColCampaignName, domain.ColChannel}, channelNumericColumns); err != nil {
		return domain.ROIReport{}, err
	}

	channels, err := AnalyzeChannelPerformance(f)
	if err != nil {
		return domain.ROIReport{}, err
	}

	cost, _ := f.Numeric(domain.ColCost)
	revenue, _ := f.Numeric(domain.ColRevenue)
	profit, _ := f.Numeric(domain.ColProfit)
	roi, _ := f.Numeric(domain.ColROI)
	roas, _ := f.Numeric(domain.ColROAS)

	return domain.ROIReport{
		Overall: domain.OverallMetrics{
			TotalCost:    frame.Sum(cost),
			TotalRevenue: frame.Sum(revenue),
			TotalProfit:  frame.Sum(profit),
			OverallROI:   frame.Mean(roi),
			OverallROAS:  frame.Mean(roas),
		},
		Channels:        channels,
		TopCampaigns:    rankCampaigns(f, roi, true),
		BottomCampaigns: rankCampaigns(f, roi, false),
	}, nil
}

func rankCampaigns(f *frame.Frame, roi []float64, descending bool) []domain.CampaignRank {
	rows := make([]int, 0, len(roi))
	for i, v := range roi {
		if !math.IsNaN(v) {
			rows = append(rows, i)
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if descending {
			return roi[rows[a]] > roi[rows[b]]
		}
		return roi[rows[a]] < roi[rows[b]]
	})
	if len(rows) > rankSize {
		rows = rows[:rankSize]
	}

	names, nameValid, _ := f.Categorical(domain.ColCampaignName)
	channels, channelValid, _ := f.Categorical(domain.ColChannel)
	cost, _ := f.Numeric(domain.ColCost)
	revenue, _ := f.Numeric(domain.ColRevenue)

	ranks := make([]domain.CampaignRank, len(rows))
	for i, r := range rows {
		rank := domain.CampaignRank{Cost: cost[r], Revenue: revenue[r], ROI: roi[r]}
		if nameValid[r] {
			rank.CampaignName = names[r]
		}
		if channelValid[r] {
			rank.Channel = channels[r]
		}
		ranks[i] = rank
	}
	return ranks
}
