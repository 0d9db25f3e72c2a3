package adapters

import (
	"database/sql"
	"math"

	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/models/store"
)

const dateLayout = "2006-01-02"

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func MapStoreCampaignToDomain(row store.CampaignRow) domain.CampaignRecord {
	record := domain.CampaignRecord{
		CampaignName: nullString(row.CampaignName),
		Channel:      nullString(row.Channel),
		Cost:         nullFloat(row.Cost),
		Impressions:  nullFloat(row.Impressions),
		Clicks:       nullFloat(row.Clicks),
		Conversions:  nullFloat(row.Conversions),
		Revenue:      nullFloat(row.Revenue),
	}
	if row.Date.Valid {
		d := row.Date.Time
		record.Date = &d
	}
	return record
}

func MapStoreCustomerToDomain(row store.CustomerRow) domain.CustomerRecord {
	return domain.CustomerRecord{
		Age:                nullFloat(row.Age),
		Gender:             nullString(row.Gender),
		Country:            nullString(row.Country),
		Sessions:           nullFloat(row.Sessions),
		AvgSessionDuration: nullFloat(row.AvgSessionDuration),
		PagesPerSession:    nullFloat(row.PagesPerSession),
		Transactions:       nullFloat(row.Transactions),
		Revenue:            nullFloat(row.Revenue),
	}
}

func float(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func str(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	return *v, true
}

type categorical struct {
	values []string
	valid  []bool
}

func newCategorical(n int) *categorical {
	return &categorical{values: make([]string, n), valid: make([]bool, n)}
}

func (c *categorical) set(i int, v *string) {
	c.values[i], c.valid[i] = str(v)
}

// CampaignsToFrame lays records out in the column order of the campaigns
// table. Dates become ISO strings.
func CampaignsToFrame(records []domain.CampaignRecord) (*frame.Frame, error) {
	n := len(records)
	names := newCategorical(n)
	channels := newCategorical(n)
	dates := newCategorical(n)
	numeric := make(map[string][]float64, len(domain.CampaignNumericColumns))
	for _, c := range domain.CampaignNumericColumns {
		numeric[c] = make([]float64, n)
	}

	for i, r := range records {
		names.set(i, r.CampaignName)
		channels.set(i, r.Channel)
		numeric[domain.ColCost][i] = float(r.Cost)
		numeric[domain.ColImpressions][i] = float(r.Impressions)
		numeric[domain.ColClicks][i] = float(r.Clicks)
		numeric[domain.ColConversions][i] = float(r.Conversions)
		numeric[domain.ColRevenue][i] = float(r.Revenue)
		if r.Date != nil {
			dates.values[i] = r.Date.Format(dateLayout)
			dates.valid[i] = true
		}
	}

	f := frame.New()
	if err := f.SetCategorical(domain.ColCampaignName, names.values, names.valid); err != nil {
		return nil, err
	}
	if err := f.SetCategorical(domain.ColChannel, channels.values, channels.valid); err != nil {
		return nil, err
	}
	for _, c := range domain.CampaignNumericColumns {
		if err := f.SetNumeric(c, numeric[c]); err != nil {
			return nil, err
		}
	}
	if err := f.SetCategorical(domain.ColDate, dates.values, dates.valid); err != nil {
		return nil, err
	}
	return f, nil
}

// CustomersToFrame lays records out in the column order of the customers table.
func CustomersToFrame(records []domain.CustomerRecord) (*frame.Frame, error) {
	n := len(records)
	genders := newCategorical(n)
	countries := newCategorical(n)
	numeric := make(map[string][]float64, len(domain.CustomerNumericColumns))
	for _, c := range domain.CustomerNumericColumns {
		numeric[c] = make([]float64, n)
	}

	for i, r := range records {
		genders.set(i, r.Gender)
		countries.set(i, r.Country)
		numeric[domain.ColAge][i] = float(r.Age)
		numeric[domain.ColSessions][i] = float(r.Sessions)
		numeric[domain.ColAvgSessionDuration][i] = float(r.AvgSessionDuration)
		numeric[domain.ColPagesPerSession][i] = float(r.PagesPerSession)
		numeric[domain.ColTransactions][i] = float(r.Transactions)
		numeric[domain.ColRevenue][i] = float(r.Revenue)
	}

	f := frame.New()
	if err := f.SetNumeric(domain.ColAge, numeric[domain.ColAge]); err != nil {
		return nil, err
	}
	if err := f.SetCategorical(domain.ColGender, genders.values, genders.valid); err != nil {
		return nil, err
	}
	if err := f.SetCategorical(domain.ColCountry, countries.values, countries.valid); err != nil {
		return nil, err
	}
	for _, c := range domain.CustomerNumericColumns[1:] {
		if err := f.SetNumeric(c, numeric[c]); err != nil {
			return nil, err
		}
	}
	return f, nil
}
