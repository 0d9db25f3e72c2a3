package export

import (
	"fmt"
	"math"

	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const (
	ChannelsSheet = "Channels"
	SegmentsSheet = "Segments"
)

var (
	channelHeader = []interface{}{
		"Channel", "Cost", "Revenue", "Conversions", "Profit", "ROI %", "ROAS",
		"Impressions", "Clicks", "Profit Contribution %", "CTR %", "Conversion Rate %",
	}
	segmentHeader = []interface{}{
		"Segment", "Customers", "Share %", "Sessions", "Pages per Session", "Transactions",
		"Avg Session Duration", "Revenue Mean", "Revenue Sum",
	}
)

// cell leaves non-finite numbers blank; spreadsheets cannot store them.
func cell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// WriteWorkbook saves channel summaries and segment profiles to an XLSX file
// with one sheet each.
func WriteWorkbook(path string, channels []domain.ChannelSummary, segments []domain.SegmentProfile) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ChannelsSheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if _, err := f.NewSheet(SegmentsSheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", SegmentsSheet, err)
	}

	channelRows := [][]interface{}{channelHeader}
	for _, c := range channels {
		channelRows = append(channelRows, []interface{}{
			c.Channel, c.Cost, c.Revenue, c.Conversions, c.Profit, cell(c.ROI), cell(c.ROAS),
			c.Impressions, c.Clicks, cell(c.ProfitContribution), cell(c.CTR), cell(c.ConversionRate),
		})
	}
	if err := writeRows(f, ChannelsSheet, channelRows); err != nil {
		return err
	}

	segmentRows := [][]interface{}{segmentHeader}
	for _, s := range segments {
		segmentRows = append(segmentRows, []interface{}{
			s.Segment, s.Customers, s.Percentage, s.Sessions, s.PagesPerSession, s.Transactions,
			s.AvgSessionDuration, s.RevenueMean, s.RevenueSum,
		})
	}
	if err := writeRows(f, SegmentsSheet, segmentRows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
