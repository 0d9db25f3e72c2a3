package commands

import (
	"fmt"

	"github.com/de-tools/campaign-atlas/pkg/adapters"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	env   *Env
	table bool
}

func NewReportCmd(env *Env) *cobra.Command {
	rc := &ReportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the ROI report without writing any files",
		RunE:  rc.run,
	}

	cmd.Flags().BoolVar(&rc.table, "table", false, "Render sections as tables")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	backend, err := rc.env.open(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	res, err := backend.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("failed to analyze campaigns: %w", err)
	}

	reporter := rc.env.Text
	if rc.table {
		reporter = rc.env.Table
	}
	return reporter.Handle(adapters.MapROIReportToReport(&res.Report, nil, rc.env.now()))
}
