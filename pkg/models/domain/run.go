package domain

import "time"

type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
	RunStatusFailed   RunStatus = "failed"
)

// PipelineRun is the recorded outcome of one pipeline execution.
type PipelineRun struct {
	ID              string
	Status          RunStatus
	StartedAt       time.Time
	FinishedAt      *time.Time
	CampaignRecords int
	CustomerRecords int
	Warnings        []string
	Error           *string
}
