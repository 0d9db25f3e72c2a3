package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type RunsCmd struct {
	env   *Env
	limit int
}

func NewRunsCmd(env *Env) *cobra.Command {
	rc := &RunsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs",
		RunE:  rc.run,
	}

	cmd.Flags().IntVar(&rc.limit, "limit", 10, "Maximum number of runs to list")

	return cmd
}

func (rc *RunsCmd) run(cmd *cobra.Command, _ []string) error {
	if rc.limit < 1 {
		return fmt.Errorf("--limit must be positive, got %d", rc.limit)
	}
	ctx := cmd.Context()

	backend, err := rc.env.open(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	runs, err := backend.ListRuns(ctx, rc.limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pipeline runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSTARTED\tDURATION\tCAMPAIGNS\tCUSTOMERS\tWARNINGS")
	for _, r := range runs {
		duration := "-"
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.Status, r.StartedAt.Format(time.RFC3339), duration,
			r.CampaignRecords, r.CustomerRecords, len(r.Warnings))
	}
	return w.Flush()
}
