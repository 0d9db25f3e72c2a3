package cleaning

import (
	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

// QualityReport summarises record count, missing cells per column, duplicate
// rows and descriptive statistics of every numeric column.
func QualityReport(f *frame.Frame) domain.DataQualityReport {
	report := domain.DataQualityReport{
		TotalRecords:  f.Len(),
		MissingValues: make(map[string]int),
		Duplicates:    f.Duplicates(),
		NumericStats:  make(map[string]domain.ColumnStats),
	}

	for _, name := range f.Names() {
		if values, ok := f.Numeric(name); ok {
			report.MissingValues[name] = len(values) - frame.Count(values)
			report.NumericStats[name] = describe(values)
			continue
		}
		_, valid, _ := f.Categorical(name)
		missing := 0
		for _, v := range valid {
			if !v {
				missing++
			}
		}
		report.MissingValues[name] = missing
	}
	return report
}

func describe(values []float64) domain.ColumnStats {
	return domain.ColumnStats{
		Count: frame.Count(values),
		Mean:  frame.Mean(values),
		Std:   frame.Std(values, 1),
		Min:   frame.Min(values),
		P25:   frame.Quantile(values, 0.25),
		P50:   frame.Quantile(values, 0.5),
		P75:   frame.Quantile(values, 0.75),
		Max:   frame.Max(values),
	}
}
