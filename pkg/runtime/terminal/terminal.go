package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/campaign-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/campaign-atlas/pkg/runtime/terminal/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env        *commands.Env
	configPath string
	logLevel   string
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Open   commands.Opener
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) (*CLI, error) {
	if opts.Open == nil {
		return nil, fmt.Errorf("opener cannot be nil")
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	text, err := NewReporter(opts.Output)
	if err != nil {
		return nil, err
	}

	cli := &CLI{}
	cli.env = &commands.Env{
		Open:       opts.Open,
		ConfigPath: &cli.configPath,
		Text:       text,
		Table:      table.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli, nil
}

// Execute runs the command line against ctx, which carries the root logger.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "campaign-atlas",
		Short:             "Marketing campaign ROI and customer segmentation",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setupLogger,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(commands.NewRunCmd(cli.env))
	cmd.AddCommand(commands.NewReportCmd(cli.env))
	cmd.AddCommand(commands.NewSegmentsCmd(cli.env))
	cmd.AddCommand(commands.NewRunsCmd(cli.env))
	cmd.AddCommand(commands.NewImportCmd(cli.env))

	return cmd
}

func (cli *CLI) setupLogger(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(cli.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx).Level(level)
	cmd.SetContext(logger.WithContext(ctx))
	return nil
}
