package roi

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SummaryRows builds the seven metric/value pairs of the ROI summary table.
func SummaryRows(f *frame.Frame) ([]domain.SummaryRow, error) {
	if err := requireColumns(f, []string{domain.ColChannel}, []string{
		domain.ColCost, domain.ColRevenue, domain.ColProfit, domain.ColROI, domain.ColROAS,
	}); err != nil {
		return nil, err
	}

	cost, _ := f.Numeric(domain.ColCost)
	revenue, _ := f.Numeric(domain.ColRevenue)
	profit, _ := f.Numeric(domain.ColProfit)
	roi, _ := f.Numeric(domain.ColROI)
	roas, _ := f.Numeric(domain.ColROAS)

	best, worst := rankChannels(f, roi)

	return []domain.SummaryRow{
		{Metric: "Total Cost", Value: formatCurrency(frame.Sum(cost))},
		{Metric: "Total Revenue", Value: formatCurrency(frame.Sum(revenue))},
		{Metric: "Total Profit", Value: formatCurrency(frame.Sum(profit))},
		{Metric: "Average ROI", Value: formatFixed(frame.Mean(roi), 1) + "%"},
		{Metric: "Average ROAS", Value: formatFixed(frame.Mean(roas), 2)},
		{Metric: "Best Performing Channel", Value: best},
		{Metric: "Worst Performing Channel", Value: worst},
	}, nil
}

// rankChannels returns the channels with the highest and lowest mean roi.
// Ties go to the channel that sorts first by name.
func rankChannels(f *frame.Frame, roi []float64) (best, worst string) {
	keys, groups, _ := f.GroupBy(domain.ColChannel)
	bestROI, worstROI := math.NaN(), math.NaN()
	for _, channel := range keys {
		mean := frame.Mean(pick(roi, groups[channel]))
		if math.IsNaN(mean) {
			continue
		}
		if math.IsNaN(bestROI) || mean > bestROI {
			best, bestROI = channel, mean
		}
		if math.IsNaN(worstROI) || mean < worstROI {
			worst, worstROI = channel, mean
		}
	}
	return best, worst
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "nan", true
	case math.IsInf(v, 1):
		return "inf", true
	case math.IsInf(v, -1):
		return "-inf", true
	}
	return "", false
}

func formatCurrency(v float64) string {
	if s, ok := nonFinite(v); ok {
		return "$" + s
	}
	return message.NewPrinter(language.English).Sprintf("$%.2f", v)
}

func formatFixed(v float64, places int) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return fmt.Sprintf("%.*f", places, v)
}

// ExportSummary writes the summary table as CSV with a metric,value header.
func ExportSummary(f *frame.Frame, w io.Writer) error {
	rows, err := SummaryRows(f)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"metric", "value"}); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Metric, row.Value}); err != nil {
			return fmt.Errorf("write summary row %q: %w", row.Metric, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportSummaryFile writes the summary table to path, creating parent directories.
func ExportSummaryFile(f *frame.Frame, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create summary directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	if err := ExportSummary(f, file); err != nil {
		return err
	}
	return file.Close()
}
