package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/campaign-atlas/pkg/runtime/app"
	"github.com/de-tools/campaign-atlas/pkg/runtime/terminal"
	"github.com/de-tools/campaign-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/de-tools/campaign-atlas/pkg/store/source"
	"github.com/rs/zerolog"
)

func open(ctx context.Context, path string) (commands.Backend, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	a, err := app.Open(ctx, cfg, app.Options{Sources: source.DefaultRegistry()})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func main() {
	// Reports go to stdout, logs to stderr.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	cli, err := terminal.NewCLI(terminal.Options{
		Open:   open,
		Output: os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
