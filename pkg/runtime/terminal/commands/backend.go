package commands

import (
	"context"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/de-tools/campaign-atlas/pkg/services/pipeline"
)

// Backend is what the commands need from an opened application.
type Backend interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
	Analyze(ctx context.Context) (*pipeline.Result, error)
	ListRuns(ctx context.Context, limit int) ([]domain.PipelineRun, error)
	Import(ctx context.Context, campaigns []domain.CampaignRecord, customers []domain.CustomerRecord) error
	ExportDefaults() config.ExportSettings
	Close() error
}

// Opener opens a backend for the config file at path. An empty path means
// defaults plus environment overrides.
type Opener func(ctx context.Context, path string) (Backend, error)

type Reporter interface {
	Handle(report *domain.Report) error
}

// Env is shared by all commands. ConfigPath is bound to the root --config flag.
type Env struct {
	Open       Opener
	ConfigPath *string
	Text       Reporter
	Table      Reporter
	Now        func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) open(ctx context.Context) (Backend, error) {
	path := ""
	if e.ConfigPath != nil {
		path = *e.ConfigPath
	}
	return e.Open(ctx, path)
}
