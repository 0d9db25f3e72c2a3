package api

import "time"

type PipelineRun struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	CampaignRecords int        `json:"campaign_records"`
	CustomerRecords int        `json:"customer_records"`
	Warnings        []string   `json:"warnings,omitempty"`
	Error           *string    `json:"error,omitempty"`
}

type RunsResponse struct {
	Runs []PipelineRun `json:"runs"`
}

// RunRequest starts a pipeline run. Unset fields fall back to the server config.
type RunRequest struct {
	ExportPowerBI *bool `json:"export_powerbi,omitempty"`
	Workbook      *bool `json:"workbook,omitempty"`
	SkipErrors    bool  `json:"skip_errors"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RunAccepted struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
