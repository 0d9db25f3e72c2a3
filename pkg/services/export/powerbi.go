package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	CampaignBIFile = "campaign_data_powerbi.csv"
	CustomerBIFile = "customer_segments_powerbi.csv"
	ROIBIFile      = "roi_analysis_powerbi.csv"
	ChannelBIFile  = "channel_performance_powerbi.csv"
	MetadataFile   = "powerbi_metadata.json"

	ColUpdateTime         = "PowerBI_UpdateTime"
	ColROICategory        = "ROI_Category"
	ColRevenueTier        = "Revenue_Tier"
	ColConversionCategory = "Conversion_Category"
	ColCustomerValue      = "Customer_Value"
	ColEngagementLevel    = "Engagement_Level"
	ColMarketShare        = "Revenue_Market_Share_%"
	ColRevenueRank        = "Revenue_Rank"
)

var (
	revenueTiers   = []string{"Low", "Medium", "High", "Very High"}
	customerValues = []string{"Low", "Medium", "High"}
)

// BIExporter writes dashboard-ready copies of the pipeline tables.
type BIExporter struct {
	dir string
	now func() time.Time
}

func NewBIExporter(dir string) *BIExporter {
	return &BIExporter{dir: dir, now: time.Now}
}

func stamp(f *frame.Frame, at time.Time) error {
	values := make([]string, f.Len())
	for i := range values {
		values[i] = at.Format(time.RFC3339)
	}
	return f.SetCategorical(ColUpdateTime, values, nil)
}

func binColumn(f *frame.Frame, source, target string, bin func(float64) (string, bool)) error {
	values, ok := f.Numeric(source)
	if !ok {
		return nil
	}
	labels := make([]string, len(values))
	valid := make([]bool, len(values))
	for i, v := range values {
		labels[i], valid[i] = bin(v)
	}
	return f.SetCategorical(target, labels, valid)
}

func tierColumn(f *frame.Frame, source, target string, labels []string) error {
	values, ok := f.Numeric(source)
	if !ok {
		return nil
	}
	tiers, valid := QuantileTiers(values, labels)
	return f.SetCategorical(target, tiers, valid)
}

// EnrichCampaigns adds the refresh stamp plus ROI, revenue and conversion
// categories. Categories whose source column is absent are skipped.
func EnrichCampaigns(f *frame.Frame, at time.Time) (*frame.Frame, error) {
	out := f.Clone()
	if err := stamp(out, at); err != nil {
		return nil, err
	}
	if err := binColumn(out, domain.ColROI, ColROICategory, ROICategory); err != nil {
		return nil, err
	}
	if err := tierColumn(out, domain.ColRevenue, ColRevenueTier, revenueTiers); err != nil {
		return nil, err
	}
	if err := binColumn(out, domain.ColConversionRate, ColConversionCategory, ConversionCategory); err != nil {
		return nil, err
	}
	return out, nil
}

// EnrichCustomers adds the refresh stamp, revenue terciles and engagement levels.
func EnrichCustomers(f *frame.Frame, at time.Time) (*frame.Frame, error) {
	out := f.Clone()
	if err := stamp(out, at); err != nil {
		return nil, err
	}
	if err := tierColumn(out, domain.ColRevenue, ColCustomerValue, customerValues); err != nil {
		return nil, err
	}
	if err := binColumn(out, domain.ColAvgSessionDuration, ColEngagementLevel, EngagementLevel); err != nil {
		return nil, err
	}
	return out, nil
}

// ChannelFrame tabulates channel summaries with each channel's share of total
// revenue and its revenue rank.
func ChannelFrame(channels []domain.ChannelSummary) (*frame.Frame, error) {
	n := len(channels)
	names := make([]string, n)
	cols := map[string][]float64{}
	order := []string{
		domain.ColCost, domain.ColRevenue, domain.ColConversions, domain.ColProfit, domain.ColROI,
		domain.ColROAS, domain.ColImpressions, domain.ColClicks, domain.ColProfitContribution,
		domain.ColCTR, domain.ColConversionRate,
	}
	for _, name := range order {
		cols[name] = make([]float64, n)
	}

	total := 0.0
	for i, c := range channels {
		names[i] = c.Channel
		cols[domain.ColCost][i] = c.Cost
		cols[domain.ColRevenue][i] = c.Revenue
		cols[domain.ColConversions][i] = c.Conversions
		cols[domain.ColProfit][i] = c.Profit
		cols[domain.ColROI][i] = c.ROI
		cols[domain.ColROAS][i] = c.ROAS
		cols[domain.ColImpressions][i] = c.Impressions
		cols[domain.ColClicks][i] = c.Clicks
		cols[domain.ColProfitContribution][i] = c.ProfitContribution
		cols[domain.ColCTR][i] = c.CTR
		cols[domain.ColConversionRate][i] = c.ConversionRate
		total += c.Revenue
	}

	share := make([]float64, n)
	for i, c := range channels {
		share[i] = frame.Round(c.Revenue/total*100, 2)
	}
	ranks := DescendingRanks(cols[domain.ColRevenue])
	rankValues := make([]float64, n)
	for i, r := range ranks {
		rankValues[i] = float64(r)
	}

	f := frame.New()
	if err := f.SetCategorical(domain.ColChannel, names, nil); err != nil {
		return nil, err
	}
	for _, name := range order {
		if err := f.SetNumeric(name, cols[name]); err != nil {
			return nil, err
		}
	}
	if err := f.SetNumeric(ColMarketShare, share); err != nil {
		return nil, err
	}
	if err := f.SetNumeric(ColRevenueRank, rankValues); err != nil {
		return nil, err
	}
	return f, nil
}

type dataSource struct {
	Name            string `json:"name"`
	File            string `json:"file"`
	Type            string `json:"type"`
	UpdateFrequency string `json:"update_frequency"`
}

type page struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type measure struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
	Format  string `json:"format"`
}

type Metadata struct {
	DashboardName string       `json:"dashboard_name"`
	Version       string       `json:"version"`
	CreatedDate   string       `json:"created_date"`
	DataSources   []dataSource `json:"data_sources"`
	Pages         []page       `json:"pages"`
	KeyMeasures   []measure    `json:"key_measures"`
}

func NewMetadata(at time.Time) Metadata {
	return Metadata{
		DashboardName: "Marketing Campaign Analysis",
		Version:       "1.0.0",
		CreatedDate:   at.Format(time.RFC3339),
		DataSources: []dataSource{
			{Name: "Campaign Data", File: CampaignBIFile, Type: "CSV", UpdateFrequency: "Daily"},
			{Name: "Customer Segments", File: CustomerBIFile, Type: "CSV", UpdateFrequency: "Weekly"},
			{Name: "ROI Analysis", File: ROIBIFile, Type: "CSV", UpdateFrequency: "Daily"},
			{Name: "Channel Performance", File: ChannelBIFile, Type: "CSV", UpdateFrequency: "Daily"},
		},
		Pages: []page{
			{Name: "Executive Summary", Description: "High-level KPIs and trends"},
			{Name: "Channel Analysis", Description: "Channel performance and ROI comparison"},
			{Name: "Customer Insights", Description: "Customer segmentation and behavior analysis"},
		},
		KeyMeasures: []measure{
			{Name: "Total Revenue", Formula: "SUM(Campaign[revenue])", Format: "Currency"},
			{Name: "Total Conversions", Formula: "SUM(Campaign[conversions])", Format: "Number"},
			{Name: "Average ROI", Formula: "AVERAGE(Campaign[roi])", Format: "Percentage"},
		},
	}
}

// BITables are the inputs of a full BI export.
type BITables struct {
	Campaigns *frame.Frame
	Customers *frame.Frame
	ROI       *frame.Frame
	Channels  []domain.ChannelSummary
}

// ExportAll writes the four BI tables and the metadata file and returns the
// written paths.
func (e *BIExporter) ExportAll(ctx context.Context, tables BITables) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	at := e.now()

	campaigns, err := EnrichCampaigns(tables.Campaigns, at)
	if err != nil {
		return nil, fmt.Errorf("enrich campaigns: %w", err)
	}
	customers, err := EnrichCustomers(tables.Customers, at)
	if err != nil {
		return nil, fmt.Errorf("enrich customers: %w", err)
	}
	channels, err := ChannelFrame(tables.Channels)
	if err != nil {
		return nil, fmt.Errorf("tabulate channels: %w", err)
	}

	outputs := []struct {
		f    *frame.Frame
		name string
	}{
		{campaigns, CampaignBIFile},
		{customers, CustomerBIFile},
		{tables.ROI, ROIBIFile},
		{channels, ChannelBIFile},
	}

	paths := make([]string, 0, len(outputs)+1)
	for _, o := range outputs {
		path, err := WriteFrame(o.f, e.dir, o.name)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	data, err := json.MarshalIndent(NewMetadata(at), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	metaPath := filepath.Join(e.dir, MetadataFile)
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	paths = append(paths, metaPath)

	logger.Info().Int("files", len(paths)).Str("dir", e.dir).Msg("exported BI datasets")
	return paths, nil
}
