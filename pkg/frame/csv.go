package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders a number the way the CSV writer does: shortest
// representation, empty for NaN and inf/-inf for infinities.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// WriteCSV writes a header row followed by one record per frame row.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(f.columns))
	for row := 0; row < f.rows; row++ {
		for i, c := range f.columns {
			switch c.kind {
			case KindNumeric:
				record[i] = FormatFloat(c.nums[row])
			case KindCategorical:
				if c.valid[row] {
					record[i] = c.strs[row]
				} else {
					record[i] = ""
				}
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV document with a header row. Columns listed in numeric
// are parsed as numbers (empty cells become NaN); the rest are categorical
// with empty cells marked missing.
func ReadCSV(r io.Reader, numeric ...string) (*Frame, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: missing header row")
	}

	isNumeric := make(map[string]bool, len(numeric))
	for _, n := range numeric {
		isNumeric[n] = true
	}

	header := records[0]
	body := records[1:]
	out := New()
	for col, name := range header {
		if isNumeric[name] {
			values := make([]float64, len(body))
			for row, rec := range body {
				cell := strings.TrimSpace(rec[col])
				if cell == "" {
					values[row] = math.NaN()
					continue
				}
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", name, row+1, err)
				}
				values[row] = v
			}
			if err := out.SetNumeric(name, values); err != nil {
				return nil, err
			}
			continue
		}

		values := make([]string, len(body))
		valid := make([]bool, len(body))
		for row, rec := range body {
			values[row] = rec[col]
			valid[row] = rec[col] != ""
		}
		if err := out.SetCategorical(name, values, valid); err != nil {
			return nil, err
		}
	}
	return out, nil
}
