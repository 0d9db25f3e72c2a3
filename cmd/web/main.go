package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/runtime/app"
	"github.com/de-tools/campaign-atlas/pkg/server"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/de-tools/campaign-atlas/pkg/services/pipeline"
	"github.com/de-tools/campaign-atlas/pkg/store/source"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath         string
	shutdownTimeout time.Duration
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Campaign Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to the YAML config file")
	rootCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second,
		"Time allowed for in-flight requests on shutdown")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	application, err := app.Open(ctx, cfg, app.Options{Sources: source.DefaultRegistry()})
	if err != nil {
		return fmt.Errorf("failed to initialise application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close application")
		}
	}()

	logger.Info().Msgf("Configuration `%s` successfully loaded.", cfgPath)
	logger.Info().Msgf("Source platform: `%s`", cfg.Source.Platform)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	web := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: shutdownTimeout,
		Dependencies: server.Dependencies{
			Analyzer:   application.Runner,
			Runs:       application.Runs,
			Controller: pipeline.NewController(application.Runner),
			Gatherer:   application.Registry,
			Export:     cfg.Export,
		},
	})

	return web.Start()
}
