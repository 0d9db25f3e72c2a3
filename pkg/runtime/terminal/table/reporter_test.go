package table

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Handle(t *testing.T) {
	report := &domain.Report{
		Title:       "Customer Segments",
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		TotalAmount: 3300,
		Currency:    "USD",
		Sections: []domain.ReportSection{{
			Title:   "Customer Segments",
			Summary: map[string]interface{}{"Customers": 5},
			Details: []domain.ReportDetail{
				{Name: "High-Value Buyers", Value: "1500", Unit: "USD", Description: "2 customers (40%), 50 sessions"},
			},
		}},
	}

	var buf bytes.Buffer
	r := NewReporter(&buf)
	require.NoError(t, r.Handle(report))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	sep := r.separator()

	assert.Equal(t, "Customer Segments", lines[0])
	assert.Equal(t, "Total Amount: USD 3300.00", lines[2])
	assert.Equal(t, "=== Customer Segments ===", lines[4])
	assert.Equal(t, "Customers: 5", lines[5])
	assert.Equal(t, sep, lines[6])
	assert.Equal(t, sep, lines[8])
	assert.Equal(t, sep, lines[10])
	assert.Len(t, lines, 11)

	for _, line := range lines[6:] {
		assert.Len(t, line, len(sep), "row %q is not aligned", line)
	}
	assert.Contains(t, lines[9], "| High-Value Buyers ")
	assert.Contains(t, lines[9], "           1500 | USD   |")
}

func TestReporter_NilReport(t *testing.T) {
	assert.Error(t, NewReporter(&bytes.Buffer{}).Handle(nil))
}
