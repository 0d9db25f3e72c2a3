package commands

import (
	"fmt"

	"github.com/de-tools/campaign-atlas/pkg/adapters"
	"github.com/spf13/cobra"
)

func NewSegmentsCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "segments",
		Short: "Segment customers and print the segment profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			backend, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			res, err := backend.Analyze(ctx)
			if err != nil {
				return fmt.Errorf("failed to segment customers: %w", err)
			}
			return env.Table.Handle(adapters.MapSegmentsToReport(res.Segments, env.now()))
		},
	}
}
