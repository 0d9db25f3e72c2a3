package commands

import (
	"fmt"

	"github.com/de-tools/campaign-atlas/pkg/adapters"
	"github.com/de-tools/campaign-atlas/pkg/services/pipeline"
	"github.com/spf13/cobra"
)

type RunCmd struct {
	env           *Env
	exportPowerBI bool
	workbook      bool
	skipErrors    bool
}

func NewRunCmd(env *Env) *cobra.Command {
	rc := &RunCmd{env: env}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: extract, clean, analyze and export",
		RunE:  rc.run,
	}

	cmd.Flags().BoolVar(&rc.exportPowerBI, "export-powerbi", false, "Write the Power BI tables and metadata")
	cmd.Flags().BoolVar(&rc.workbook, "workbook", false, "Write the XLSX workbook")
	cmd.Flags().BoolVar(&rc.skipErrors, "skip-errors", false, "Record failed optional exports as warnings")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	backend, err := rc.env.open(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	defaults := backend.ExportDefaults()
	opts := pipeline.Options{
		ExportPowerBI: defaults.PowerBI,
		Workbook:      defaults.Workbook,
		SkipErrors:    rc.skipErrors,
	}
	if cmd.Flags().Changed("export-powerbi") {
		opts.ExportPowerBI = rc.exportPowerBI
	}
	if cmd.Flags().Changed("workbook") {
		opts.Workbook = rc.workbook
	}

	res, err := backend.Run(ctx, opts)
	if err != nil {
		if res != nil {
			return fmt.Errorf("pipeline run %s failed: %w", res.Run.ID, err)
		}
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	report := adapters.MapROIReportToReport(&res.Report, res.Segments, rc.env.now())
	if err := rc.env.Text.Handle(report); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nRun %s %s: %d files written\n", res.Run.ID, res.Run.Status, len(res.Files))
	for _, f := range res.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	for _, w := range res.Run.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}
