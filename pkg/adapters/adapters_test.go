package adapters

import (
	"database/sql"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCampaignsToFrame(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []store.CampaignRow{
		{
			CampaignName: sql.NullString{String: "spring sale", Valid: true},
			Channel:      sql.NullString{String: "Email", Valid: true},
			Cost:         sql.NullFloat64{Float64: 100, Valid: true},
			Impressions:  sql.NullFloat64{Float64: 1000, Valid: true},
			Clicks:       sql.NullFloat64{Float64: 50, Valid: true},
			Conversions:  sql.NullFloat64{Float64: 5, Valid: true},
			Revenue:      sql.NullFloat64{Float64: 300, Valid: true},
			Date:         sql.NullTime{Time: day, Valid: true},
		},
		{
			Channel: sql.NullString{String: "Social", Valid: true},
			Cost:    sql.NullFloat64{Float64: 80, Valid: true},
		},
	}

	records := make([]domain.CampaignRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, MapStoreCampaignToDomain(r))
	}
	require.Nil(t, records[1].CampaignName)
	require.Nil(t, records[1].Date)

	f, err := CampaignsToFrame(records)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"campaign_name", "channel", "cost", "impressions", "clicks", "conversions", "revenue", "date",
	}, f.Names())
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, "spring sale", f.Value("campaign_name", 0))
	assert.Equal(t, "2024-03-01", f.Value("date", 0))
	assert.Equal(t, 300.0, f.Value("revenue", 0))
	assert.Nil(t, f.Value("campaign_name", 1))
	assert.Nil(t, f.Value("revenue", 1))
	assert.Nil(t, f.Value("date", 1))
}

func TestCustomersToFrame(t *testing.T) {
	record := MapStoreCustomerToDomain(store.CustomerRow{
		Age:      sql.NullFloat64{Float64: 34, Valid: true},
		Gender:   sql.NullString{String: "f", Valid: true},
		Sessions: sql.NullFloat64{Float64: 12, Valid: true},
		Revenue:  sql.NullFloat64{Float64: 99.5, Valid: true},
	})

	f, err := CustomersToFrame([]domain.CustomerRecord{record})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"age", "gender", "country", "sessions", "avg_session_duration",
		"pages_per_session", "transactions", "revenue",
	}, f.Names())
	assert.Equal(t, "f", f.Value("gender", 0))
	assert.Nil(t, f.Value("country", 0))
	assert.Equal(t, 12.0, f.Value("sessions", 0))
	assert.Nil(t, f.Value("transactions", 0))
}

func TestMapROIReportToAPI(t *testing.T) {
	report := &domain.ROIReport{
		Overall: domain.OverallMetrics{TotalCost: 0, TotalRevenue: 10, TotalProfit: 10, OverallROI: math.Inf(1), OverallROAS: math.Inf(1)},
		Channels: []domain.ChannelSummary{
			{Channel: "Email", ROI: 50, ROAS: 1.5, CTR: math.NaN(), ConversionRate: 2, ProfitContribution: 100},
		},
		TopCampaigns: []domain.CampaignRank{{CampaignName: "A", Channel: "Email", ROI: 50}},
	}

	out := MapROIReportToAPI(report)
	require.NotNil(t, out)
	assert.Nil(t, out.Overall.OverallROI)
	assert.Nil(t, out.Channels[0].CTR)
	require.NotNil(t, out.Channels[0].ROI)
	assert.Equal(t, 50.0, *out.Channels[0].ROI)
	assert.Empty(t, out.BottomCampaigns)

	t.Run("encodes as json", func(t *testing.T) {
		data, err := json.Marshal(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"overall_roi":null`)
		assert.Contains(t, string(data), `"bottom_campaigns":[]`)
	})

	t.Run("nil report", func(t *testing.T) {
		assert.Nil(t, MapROIReportToAPI(nil))
	})
}

func TestMapStoreRunToDomain(t *testing.T) {
	finished := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	run := &store.PipelineRun{
		ID:              "run-1",
		Status:          "finished",
		StartedAt:       finished.Add(-time.Minute),
		FinishedAt:      sql.NullTime{Time: finished, Valid: true},
		CampaignRecords: 10,
		Warnings:        []string{"s3 upload skipped"},
		Error:           sql.NullString{String: "partial export", Valid: true},
	}

	d := MapStoreRunToDomain(run)
	assert.Equal(t, domain.RunStatusFinished, d.Status)
	assert.Equal(t, run, MapDomainRunToStore(d))
	assert.Nil(t, MapStoreRunToDomain(nil))

	api := MapRunToAPI(*d)
	assert.Equal(t, "finished", api.Status)
	assert.Equal(t, ptr(finished), api.FinishedAt)
	assert.Equal(t, ptr("partial export"), d.Error)

	t.Run("unfinished run", func(t *testing.T) {
		running := MapDomainRunToStore(&domain.PipelineRun{ID: "run-2", Status: domain.RunStatusRunning})
		assert.False(t, running.FinishedAt.Valid)
		assert.False(t, running.Error.Valid)

		back := MapStoreRunToDomain(running)
		assert.Nil(t, back.FinishedAt)
		assert.Nil(t, back.Error)
	})
}

func TestMapROIReportToReport(t *testing.T) {
	report := &domain.ROIReport{
		Overall:         domain.OverallMetrics{TotalCost: 100, TotalRevenue: 250, TotalProfit: 150, OverallROI: 150, OverallROAS: 2.5},
		Channels:        []domain.ChannelSummary{{Channel: "Email", ROI: 150, ROAS: 2.5, Profit: 150, ProfitContribution: 100}},
		TopCampaigns:    []domain.CampaignRank{{CampaignName: "A", Channel: "Email", Cost: 100, Revenue: 250, ROI: 150}},
		BottomCampaigns: []domain.CampaignRank{{CampaignName: "A", Channel: "Email", Cost: 100, Revenue: 250, ROI: 150}},
	}
	segments := []domain.SegmentProfile{{Segment: "High-Value Buyers", RevenueMean: 10, Customers: 3, Percentage: 100}}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := MapROIReportToReport(report, segments, now)
	require.Len(t, out.Sections, 5)
	assert.Equal(t, "Overall Metrics", out.Sections[0].Title)
	assert.Equal(t, "150", out.Sections[0].Details[3].Value)
	assert.Equal(t, "Customer Segments", out.Sections[4].Title)
	assert.Equal(t, 3, out.Sections[4].Summary["Customers"])
	assert.Equal(t, 250.0, out.TotalAmount)

	t.Run("without segments", func(t *testing.T) {
		assert.Len(t, MapROIReportToReport(report, nil, now).Sections, 4)
	})
}

func TestMapSegmentsToReport(t *testing.T) {
	segments := []domain.SegmentProfile{
		{Segment: "High-Value Buyers", RevenueMean: 1500, RevenueSum: 3000, Customers: 2, Percentage: 40, Sessions: 50},
		{Segment: "Casual Visitors", RevenueMean: 100, RevenueSum: 300, Customers: 3, Percentage: 60, Sessions: 5.555},
	}
	out := MapSegmentsToReport(segments, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, out.Sections, 1)
	assert.Equal(t, 3300.0, out.TotalAmount)
	assert.Equal(t, 5, out.Sections[0].Summary["Customers"])
	assert.Equal(t, "1500", out.Sections[0].Details[0].Value)
	assert.Equal(t, "3 customers (60%), 5.56 sessions", out.Sections[0].Details[1].Description)
}
