package adapters

import (
	"fmt"
	"math"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

type frameReader struct {
	f *frame.Frame
}

func (r frameReader) float(name string, row int) *float64 {
	values, ok := r.f.Numeric(name)
	if !ok || math.IsNaN(values[row]) {
		return nil
	}
	v := values[row]
	return &v
}

func (r frameReader) str(name string, row int) *string {
	values, valid, ok := r.f.Categorical(name)
	if !ok || !valid[row] {
		return nil
	}
	v := values[row]
	return &v
}

// FrameToCampaigns is the inverse of CampaignsToFrame. Absent columns and
// missing cells become nil fields.
func FrameToCampaigns(f *frame.Frame) ([]domain.CampaignRecord, error) {
	r := frameReader{f: f}
	records := make([]domain.CampaignRecord, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		record := domain.CampaignRecord{
			CampaignName: r.str(domain.ColCampaignName, i),
			Channel:      r.str(domain.ColChannel, i),
			Cost:         r.float(domain.ColCost, i),
			Impressions:  r.float(domain.ColImpressions, i),
			Clicks:       r.float(domain.ColClicks, i),
			Conversions:  r.float(domain.ColConversions, i),
			Revenue:      r.float(domain.ColRevenue, i),
		}
		if raw := r.str(domain.ColDate, i); raw != nil {
			d, err := time.Parse(dateLayout, *raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid date %q: %w", i+1, *raw, err)
			}
			record.Date = &d
		}
		records = append(records, record)
	}
	return records, nil
}

func FrameToCustomers(f *frame.Frame) []domain.CustomerRecord {
	r := frameReader{f: f}
	records := make([]domain.CustomerRecord, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		records = append(records, domain.CustomerRecord{
			Age:                r.float(domain.ColAge, i),
			Gender:             r.str(domain.ColGender, i),
			Country:            r.str(domain.ColCountry, i),
			Sessions:           r.float(domain.ColSessions, i),
			AvgSessionDuration: r.float(domain.ColAvgSessionDuration, i),
			PagesPerSession:    r.float(domain.ColPagesPerSession, i),
			Transactions:       r.float(domain.ColTransactions, i),
			Revenue:            r.float(domain.ColRevenue, i),
		})
	}
	return records
}
