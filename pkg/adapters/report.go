package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

const currency = "USD"

func number(v float64) string {
	return frame.FormatFloat(frame.Round(v, 2))
}

func rankDetails(ranks []domain.CampaignRank) []domain.ReportDetail {
	details := make([]domain.ReportDetail, 0, len(ranks))
	for _, r := range ranks {
		details = append(details, domain.ReportDetail{
			Name:        r.CampaignName,
			Value:       number(r.ROI),
			Unit:        "%",
			Description: fmt.Sprintf("%s, cost %s, revenue %s", r.Channel, number(r.Cost), number(r.Revenue)),
		})
	}
	return details
}

func segmentSection(segments []domain.SegmentProfile) domain.ReportSection {
	section := domain.ReportSection{Title: "Customer Segments", Summary: map[string]interface{}{}}
	customers := 0
	for _, s := range segments {
		customers += s.Customers
		section.Details = append(section.Details, domain.ReportDetail{
			Name:  s.Segment,
			Value: number(s.RevenueMean),
			Unit:  currency,
			Description: fmt.Sprintf("%d customers (%s%%), %s sessions",
				s.Customers, frame.FormatFloat(s.Percentage), number(s.Sessions)),
		})
	}
	section.Summary["Customers"] = customers
	return section
}

// MapSegmentsToReport renders segment profiles on their own. TotalAmount is
// the revenue of all segmented customers.
func MapSegmentsToReport(segments []domain.SegmentProfile, generatedAt time.Time) *domain.Report {
	total := 0.0
	for _, s := range segments {
		total += s.RevenueSum
	}
	return &domain.Report{
		Title:       "Customer Segments",
		GeneratedAt: generatedAt,
		Sections:    []domain.ReportSection{segmentSection(segments)},
		TotalAmount: total,
		Currency:    currency,
	}
}

// MapROIReportToReport lays an ROI report out as console sections. Segment
// profiles are appended as a final section when present.
func MapROIReportToReport(r *domain.ROIReport, segments []domain.SegmentProfile, generatedAt time.Time) *domain.Report {
	if r == nil {
		return nil
	}

	overall := domain.ReportSection{
		Title: "Overall Metrics",
		Summary: map[string]interface{}{
			"Campaign Channels": len(r.Channels),
		},
		Details: []domain.ReportDetail{
			{Name: "Total Cost", Value: number(r.Overall.TotalCost), Unit: currency},
			{Name: "Total Revenue", Value: number(r.Overall.TotalRevenue), Unit: currency},
			{Name: "Total Profit", Value: number(r.Overall.TotalProfit), Unit: currency},
			{Name: "Overall ROI", Value: number(r.Overall.OverallROI), Unit: "%", Description: "profit over cost"},
			{Name: "Overall ROAS", Value: number(r.Overall.OverallROAS), Description: "revenue over cost"},
		},
	}

	channels := domain.ReportSection{Title: "Channel Performance", Summary: map[string]interface{}{}}
	for _, c := range r.Channels {
		channels.Details = append(channels.Details, domain.ReportDetail{
			Name:  c.Channel,
			Value: number(c.ROI),
			Unit:  "%",
			Description: fmt.Sprintf("profit %s (%s%% of total), ROAS %s",
				number(c.Profit), frame.FormatFloat(c.ProfitContribution), number(c.ROAS)),
		})
	}

	sections := []domain.ReportSection{
		overall,
		channels,
		{Title: "Top Campaigns by ROI", Details: rankDetails(r.TopCampaigns)},
		{Title: "Bottom Campaigns by ROI", Details: rankDetails(r.BottomCampaigns)},
	}

	if len(segments) > 0 {
		sections = append(sections, segmentSection(segments))
	}

	return &domain.Report{
		Title:       "Marketing ROI Report",
		GeneratedAt: generatedAt,
		Sections:    sections,
		TotalAmount: r.Overall.TotalRevenue,
		Currency:    currency,
	}
}
