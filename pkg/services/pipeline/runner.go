package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/adapters"
	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/services/cleaning"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/de-tools/campaign-atlas/pkg/services/export"
	"github.com/de-tools/campaign-atlas/pkg/services/roi"
	"github.com/de-tools/campaign-atlas/pkg/services/segmentation"
	"github.com/de-tools/campaign-atlas/pkg/store/duckdb/runs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	StageExtract = "extract"
	StageClean   = "clean"
	StageAnalyze = "analyze"
	StageExport  = "export"
)

// Loader reads the raw input tables.
type Loader interface {
	LoadCampaigns(ctx context.Context) ([]domain.CampaignRecord, error)
	LoadCustomers(ctx context.Context) ([]domain.CustomerRecord, error)
}

type Dependencies struct {
	Loader    Loader
	Runs      runs.Store       // optional run history
	Publisher export.Publisher // optional upload of exported files
	Metrics   *Metrics         // optional
}

// Options select the optional exports of one run. Callers resolve config
// defaults before starting the run.
type Options struct {
	RunID         string // generated when empty
	ExportPowerBI bool
	Workbook      bool
	// SkipErrors turns failures of the optional exports into run warnings.
	SkipErrors bool
}

// Result holds every table and summary one pass of the pipeline produces.
type Result struct {
	Run             domain.PipelineRun
	CampaignQuality domain.DataQualityReport
	CustomerQuality domain.DataQualityReport
	Campaigns       *frame.Frame
	Customers       *frame.Frame
	Segmented       *frame.Frame
	ROI             *frame.Frame
	Report          domain.ROIReport
	Segments        []domain.SegmentProfile
	Summary         []domain.SummaryRow
	Files           []string
}

type Runner struct {
	cfg       config.Config
	loader    Loader
	runs      runs.Store
	publisher export.Publisher
	metrics   *Metrics
	cleaner   *cleaning.Cleaner
	segmenter *segmentation.Segmenter
	now       func() time.Time
}

func NewRunner(cfg config.Config, deps Dependencies) (*Runner, error) {
	if deps.Loader == nil {
		return nil, fmt.Errorf("loader cannot be nil")
	}
	segmenter, err := segmentation.NewSegmenter(cfg.Model.Clustering)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:       cfg,
		loader:    deps.Loader,
		runs:      deps.Runs,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		cleaner:   cleaning.NewCleaner(cfg.Metrics),
		segmenter: segmenter,
		now:       time.Now,
	}, nil
}

func (r *Runner) extract(ctx context.Context, res *Result) error {
	defer r.metrics.observeStage(StageExtract, r.now())

	var campaigns []domain.CampaignRecord
	var customers []domain.CustomerRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		campaigns, err = r.loader.LoadCampaigns(gctx)
		if err != nil {
			return fmt.Errorf("load campaigns: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		customers, err = r.loader.LoadCustomers(gctx)
		if err != nil {
			return fmt.Errorf("load customers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	var err error
	if res.Campaigns, err = adapters.CampaignsToFrame(campaigns); err != nil {
		return err
	}
	if res.Customers, err = adapters.CustomersToFrame(customers); err != nil {
		return err
	}
	res.CampaignQuality = cleaning.QualityReport(res.Campaigns)
	res.CustomerQuality = cleaning.QualityReport(res.Customers)

	zerolog.Ctx(ctx).Info().
		Int("campaigns", len(campaigns)).
		Int("customers", len(customers)).
		Msg("stage extract complete")
	return nil
}

func (r *Runner) clean(ctx context.Context, res *Result) error {
	defer r.metrics.observeStage(StageClean, r.now())

	campaigns, err := r.cleaner.CleanCampaigns(ctx, res.Campaigns)
	if err != nil {
		return fmt.Errorf("clean campaigns: %w", err)
	}
	customers, err := r.cleaner.CleanCustomers(ctx, res.Customers)
	if err != nil {
		return fmt.Errorf("clean customers: %w", err)
	}
	res.Campaigns, res.Customers = campaigns, customers
	res.Run.CampaignRecords = campaigns.Len()
	res.Run.CustomerRecords = customers.Len()

	r.metrics.setRecords("campaigns", campaigns.Len())
	r.metrics.setRecords("customers", customers.Len())
	zerolog.Ctx(ctx).Info().
		Int("campaigns", campaigns.Len()).
		Int("customers", customers.Len()).
		Msg("stage clean complete")
	return nil
}

func (r *Runner) analyze(ctx context.Context, res *Result) error {
	defer r.metrics.observeStage(StageAnalyze, r.now())
	logger := zerolog.Ctx(ctx)

	segmented, err := r.segmenter.Segment(ctx, res.Customers)
	if err != nil {
		return fmt.Errorf("segment customers: %w", err)
	}
	if res.Segments, err = r.segmenter.Profiles(segmented); err != nil {
		return fmt.Errorf("profile segments: %w", err)
	}
	res.Segmented = segmented

	if res.ROI, err = roi.CalculateCampaignROI(res.Campaigns); err != nil {
		return fmt.Errorf("calculate roi: %w", err)
	}
	if res.Report, err = roi.GenerateROIReport(res.ROI); err != nil {
		return fmt.Errorf("generate roi report: %w", err)
	}
	if res.Summary, err = roi.SummaryRows(res.ROI); err != nil {
		return fmt.Errorf("summarise roi: %w", err)
	}

	logger.Info().
		Int("segments", len(res.Segments)).
		Int("channels", len(res.Report.Channels)).
		Float64("overall_roi", res.Report.Overall.OverallROI).
		Msg("stage analyze complete")
	return nil
}

// Analyze runs extraction, cleaning and analysis without writing anything.
func (r *Runner) Analyze(ctx context.Context) (*Result, error) {
	res := &Result{}
	for _, stage := range []func(context.Context, *Result) error{r.extract, r.clean, r.analyze} {
		if err := stage(ctx, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// optional runs an export step whose failure becomes a warning under SkipErrors.
func (r *Runner) optional(ctx context.Context, opts Options, res *Result, name string, step func() ([]string, error)) error {
	files, err := step()
	if err == nil {
		res.Files = append(res.Files, files...)
		return nil
	}

	r.metrics.exportFailed(name)
	if !opts.SkipErrors {
		return fmt.Errorf("%s export: %w", name, err)
	}
	zerolog.Ctx(ctx).Warn().Err(err).Str("export", name).Msg("export failed, continuing")
	res.Run.Warnings = append(res.Run.Warnings, fmt.Sprintf("%s export failed: %v", name, err))
	return nil
}

func (r *Runner) export(ctx context.Context, opts Options, res *Result) error {
	defer r.metrics.observeStage(StageExport, r.now())
	paths := r.cfg.Paths

	core := []struct {
		f    *frame.Frame
		dir  string
		name string
	}{
		{res.Campaigns, paths.ProcessedData, export.CleanCampaignsFile},
		{res.Customers, paths.ProcessedData, export.CleanCustomersFile},
		{res.Segmented, paths.ProcessedData, export.SegmentsFile},
	}
	for _, c := range core {
		path, err := export.WriteFrame(c.f, c.dir, c.name)
		if err != nil {
			return err
		}
		res.Files = append(res.Files, path)
	}

	summaryPath := filepath.Join(paths.Reports, export.SummaryFile)
	if err := roi.ExportSummaryFile(res.ROI, summaryPath); err != nil {
		return err
	}
	res.Files = append(res.Files, summaryPath)

	if opts.ExportPowerBI {
		if err := r.optional(ctx, opts, res, "powerbi", func() ([]string, error) {
			return export.NewBIExporter(paths.Dashboards).ExportAll(ctx, export.BITables{
				Campaigns: res.Campaigns,
				Customers: res.Segmented,
				ROI:       res.ROI,
				Channels:  res.Report.Channels,
			})
		}); err != nil {
			return err
		}
	}

	if opts.Workbook {
		if err := r.optional(ctx, opts, res, "workbook", func() ([]string, error) {
			path := filepath.Join(paths.Reports, export.WorkbookFile)
			return []string{path}, export.WriteWorkbook(path, res.Report.Channels, res.Segments)
		}); err != nil {
			return err
		}
	}

	if r.publisher != nil {
		if err := r.optional(ctx, opts, res, "s3", func() ([]string, error) {
			return nil, r.publisher.Publish(ctx, res.Files)
		}); err != nil {
			return err
		}
	}

	zerolog.Ctx(ctx).Info().Int("files", len(res.Files)).Msg("stage export complete")
	return nil
}

// Run executes every stage, writes the outputs and records the run. The
// returned result carries the run even when a stage fails.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	id := opts.RunID
	if id == "" {
		id = uuid.NewString()
	}
	logger := zerolog.Ctx(ctx).With().Str("run_id", id).Logger()
	ctx = logger.WithContext(ctx)

	res := &Result{
		Run: domain.PipelineRun{
			ID:        id,
			Status:    domain.RunStatusRunning,
			StartedAt: r.now().UTC(),
		},
	}
	if r.runs != nil {
		if err := r.runs.Create(ctx, &res.Run); err != nil {
			err = fmt.Errorf("record run start: %w", err)
			r.complete(ctx, res, err)
			return res, err
		}
	}
	logger.Info().Msg("pipeline started")

	err := r.execute(ctx, opts, res)
	r.complete(ctx, res, err)

	if r.runs != nil {
		if ferr := r.runs.Finish(ctx, &res.Run); ferr != nil {
			logger.Error().Err(ferr).Msg("failed to record run result")
			if err == nil {
				err = fmt.Errorf("record run result: %w", ferr)
			}
		}
	}
	return res, err
}

// complete stamps the terminal state of the run.
func (r *Runner) complete(ctx context.Context, res *Result, err error) {
	logger := zerolog.Ctx(ctx)
	finished := r.now().UTC()
	res.Run.FinishedAt = &finished
	res.Run.Status = domain.RunStatusFinished
	if err != nil {
		msg := err.Error()
		res.Run.Status = domain.RunStatusFailed
		res.Run.Error = &msg
		logger.Error().Err(err).Msg("pipeline failed")
	} else {
		logger.Info().Int("warnings", len(res.Run.Warnings)).Msg("pipeline finished")
	}
	r.metrics.recordRun(string(res.Run.Status))
}

func (r *Runner) execute(ctx context.Context, opts Options, res *Result) error {
	if err := r.extract(ctx, res); err != nil {
		return err
	}
	if err := r.clean(ctx, res); err != nil {
		return err
	}
	if err := r.analyze(ctx, res); err != nil {
		return err
	}
	return r.export(ctx, opts, res)
}
