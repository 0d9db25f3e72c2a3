package marketing

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/campaign-atlas/pkg/adapters"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/models/store"
	"github.com/de-tools/campaign-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

const (
	campaignsQuery = `
		SELECT campaign_name, channel, cost, impressions, clicks,
		       conversions, revenue, date
		FROM campaigns
		ORDER BY date`

	customersQuery = `
		SELECT age, gender, country, sessions, avg_session_duration,
		       pages_per_session, transactions, revenue
		FROM customers`
)

// Store reads the raw campaign and customer tables from any SQL source.
// The Add methods write to the local DuckDB schema and honour a transaction
// stored in the context.
type Store interface {
	LoadCampaigns(ctx context.Context) ([]domain.CampaignRecord, error)
	LoadCustomers(ctx context.Context) ([]domain.CustomerRecord, error)
	AddCampaigns(ctx context.Context, records []domain.CampaignRecord) error
	AddCustomers(ctx context.Context, records []domain.CustomerRecord) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db}, nil
}

func (s *defaultStore) LoadCampaigns(ctx context.Context) ([]domain.CampaignRecord, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, campaignsQuery)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	var records []domain.CampaignRecord
	for rows.Next() {
		var row store.CampaignRow
		if err := rows.Scan(
			&row.CampaignName,
			&row.Channel,
			&row.Cost,
			&row.Impressions,
			&row.Clicks,
			&row.Conversions,
			&row.Revenue,
			&row.Date,
		); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		records = append(records, adapters.MapStoreCampaignToDomain(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}

	logger.Info().Int("records", len(records)).Msg("loaded campaign data")
	return records, nil
}

func (s *defaultStore) LoadCustomers(ctx context.Context) ([]domain.CustomerRecord, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, customersQuery)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var records []domain.CustomerRecord
	for rows.Next() {
		var row store.CustomerRow
		if err := rows.Scan(
			&row.Age,
			&row.Gender,
			&row.Country,
			&row.Sessions,
			&row.AvgSessionDuration,
			&row.PagesPerSession,
			&row.Transactions,
			&row.Revenue,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		records = append(records, adapters.MapStoreCustomerToDomain(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	logger.Info().Int("records", len(records)).Msg("loaded customer data")
	return records, nil
}

// value turns a missing field into SQL NULL.
func value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func (s *defaultStore) prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx.PrepareContext(ctx, query)
	}
	return s.db.PrepareContext(ctx, query)
}

func (s *defaultStore) AddCampaigns(ctx context.Context, records []domain.CampaignRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := s.prepare(ctx, `
		INSERT INTO campaigns (
			campaign_name, channel, cost, impressions, clicks, conversions, revenue, date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			value(r.CampaignName), value(r.Channel), value(r.Cost), value(r.Impressions),
			value(r.Clicks), value(r.Conversions), value(r.Revenue), value(r.Date),
		); err != nil {
			return fmt.Errorf("insert campaign: %w", err)
		}
	}
	return nil
}

func (s *defaultStore) AddCustomers(ctx context.Context, records []domain.CustomerRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := s.prepare(ctx, `
		INSERT INTO customers (
			age, gender, country, sessions, avg_session_duration,
			pages_per_session, transactions, revenue
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			value(r.Age), value(r.Gender), value(r.Country), value(r.Sessions),
			value(r.AvgSessionDuration), value(r.PagesPerSession), value(r.Transactions), value(r.Revenue),
		); err != nil {
			return fmt.Errorf("insert customer: %w", err)
		}
	}
	return nil
}
