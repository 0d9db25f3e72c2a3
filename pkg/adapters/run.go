package adapters

import (
	"database/sql"

	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/models/store"
)

func MapStoreRunToDomain(r *store.PipelineRun) *domain.PipelineRun {
	if r == nil {
		return nil
	}

	run := &domain.PipelineRun{
		ID:              r.ID,
		Status:          domain.RunStatus(r.Status),
		StartedAt:       r.StartedAt,
		CampaignRecords: r.CampaignRecords,
		CustomerRecords: r.CustomerRecords,
		Warnings:        r.Warnings,
	}
	if r.FinishedAt.Valid {
		finished := r.FinishedAt.Time
		run.FinishedAt = &finished
	}
	if r.Error.Valid {
		msg := r.Error.String
		run.Error = &msg
	}
	return run
}

func MapDomainRunToStore(r *domain.PipelineRun) *store.PipelineRun {
	run := &store.PipelineRun{
		ID:              r.ID,
		Status:          string(r.Status),
		StartedAt:       r.StartedAt,
		CampaignRecords: r.CampaignRecords,
		CustomerRecords: r.CustomerRecords,
		Warnings:        r.Warnings,
	}
	if r.FinishedAt != nil {
		run.FinishedAt = sql.NullTime{Time: *r.FinishedAt, Valid: true}
	}
	if r.Error != nil {
		run.Error = sql.NullString{String: *r.Error, Valid: true}
	}
	return run
}
