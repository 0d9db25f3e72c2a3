package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/de-tools/campaign-atlas/pkg/services/export"
	"github.com/de-tools/campaign-atlas/pkg/services/pipeline"
	"github.com/de-tools/campaign-atlas/pkg/store/duckdb"
	"github.com/de-tools/campaign-atlas/pkg/store/duckdb/runs"
	"github.com/de-tools/campaign-atlas/pkg/store/marketing"
	"github.com/de-tools/campaign-atlas/pkg/store/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// App bundles the stores and services both binaries run against.
type App struct {
	Config   config.Config
	Runner   *pipeline.Runner
	Runs     runs.Store
	Source   marketing.Store
	Local    marketing.Store // campaigns and customers tables of the local database
	Registry *prometheus.Registry

	localDB *sql.DB
	closers []func() error
}

type Options struct {
	Sources source.Registry
	// Publisher overrides the S3 publisher built from the export settings.
	Publisher export.Publisher
}

// sharesLocalDB reports whether the configured source is the local database
// file, which DuckDB can only hold open once per process.
func sharesLocalDB(cfg config.Config) bool {
	return cfg.Source.Platform == source.PlatformDuckDB && cfg.Source.DSN == cfg.Paths.RunsDB
}

func Open(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := zerolog.Ctx(ctx)
	if opts.Sources == nil {
		opts.Sources = source.DefaultRegistry()
	}

	a := &App{Config: cfg}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	localDB, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.Paths.RunsDB})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	a.localDB = localDB
	a.closers = append(a.closers, localDB.Close)

	sourceDB := localDB
	if !sharesLocalDB(cfg) {
		sourceDB, err = opts.Sources.Open(ctx, cfg.Source)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sourceDB.Close)
	}

	if a.Runs, err = runs.NewStore(localDB); err != nil {
		return nil, fmt.Errorf("failed to create run store: %w", err)
	}
	if a.Local, err = marketing.NewStore(localDB); err != nil {
		return nil, fmt.Errorf("failed to create local store: %w", err)
	}
	if a.Source, err = marketing.NewStore(sourceDB); err != nil {
		return nil, fmt.Errorf("failed to create source store: %w", err)
	}

	publisher := opts.Publisher
	if publisher == nil && cfg.Export.S3Bucket != "" {
		publisher, err = export.NewS3PublisherFromEnv(ctx, cfg.Export.S3Bucket, cfg.Export.S3Prefix, cfg.Export.S3Region)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("bucket", cfg.Export.S3Bucket).Msg("exports will be uploaded to S3")
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.Runner, err = pipeline.NewRunner(cfg, pipeline.Dependencies{
		Loader:    a.Source,
		Runs:      a.Runs,
		Publisher: publisher,
		Metrics:   pipeline.NewMetrics(a.Registry),
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("platform", cfg.Source.Platform).
		Str("runs_db", cfg.Paths.RunsDB).
		Msg("application initialised")
	ok = true
	return a, nil
}

// Import appends raw campaign and customer records to the local database in
// one transaction.
func (a *App) Import(ctx context.Context, campaigns []domain.CampaignRecord, customers []domain.CustomerRecord) error {
	tx, err := a.localDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	txCtx := duckdb.WithTransaction(ctx, tx)

	if err := a.Local.AddCampaigns(txCtx, campaigns); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := a.Local.AddCustomers(txCtx, customers); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Int("campaigns", len(campaigns)).
		Int("customers", len(customers)).
		Msg("imported marketing data")
	return nil
}

func (a *App) Run(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	return a.Runner.Run(ctx, opts)
}

func (a *App) Analyze(ctx context.Context) (*pipeline.Result, error) {
	return a.Runner.Analyze(ctx)
}

func (a *App) ListRuns(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	return a.Runs.List(ctx, limit)
}

func (a *App) ExportDefaults() config.ExportSettings {
	return a.Config.Export
}

func (a *App) Close() error {
	var errList []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	a.closers = nil
	return errors.Join(errList...)
}
