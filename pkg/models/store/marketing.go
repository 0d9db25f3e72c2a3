package store

import "database/sql"

type CampaignRow struct {
	CampaignName sql.NullString
	Channel      sql.NullString
	Cost         sql.NullFloat64
	Impressions  sql.NullFloat64
	Clicks       sql.NullFloat64
	Conversions  sql.NullFloat64
	Revenue      sql.NullFloat64
	Date         sql.NullTime
}

type CustomerRow struct {
	Age                sql.NullFloat64
	Gender             sql.NullString
	Country            sql.NullString
	Sessions           sql.NullFloat64
	AvgSessionDuration sql.NullFloat64
	PagesPerSession    sql.NullFloat64
	Transactions       sql.NullFloat64
	Revenue            sql.NullFloat64
}
