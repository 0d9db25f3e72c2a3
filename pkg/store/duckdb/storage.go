package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const CampaignsTableSchema = `
	CREATE TABLE IF NOT EXISTS campaigns (
		campaign_name VARCHAR,
		channel VARCHAR,
		cost DOUBLE,
		impressions DOUBLE,
		clicks DOUBLE,
		conversions DOUBLE,
		revenue DOUBLE,
		date DATE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`
const CustomersTableSchema = `
	CREATE TABLE IF NOT EXISTS customers (
		age DOUBLE,
		gender VARCHAR,
		country VARCHAR,
		sessions DOUBLE,
		avg_session_duration DOUBLE,
		pages_per_session DOUBLE,
		transactions DOUBLE,
		revenue DOUBLE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`
const PipelineRunsSchema = `
	CREATE TABLE IF NOT EXISTS pipeline_runs (
		id VARCHAR PRIMARY KEY,
		status VARCHAR NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NULL,
		campaign_records INTEGER NOT NULL DEFAULT 0,
		customer_records INTEGER NOT NULL DEFAULT 0,
		warnings VARCHAR,
		error VARCHAR NULL
	);
`

var bootQueries = []string{
	CampaignsTableSchema,
	CustomersTableSchema,
	PipelineRunsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
