package store

import (
	"database/sql"
	"time"
)

type PipelineRun struct {
	ID              string
	Status          string
	StartedAt       time.Time
	FinishedAt      sql.NullTime
	CampaignRecords int
	CustomerRecords int
	Warnings        []string
	Error           sql.NullString
}
