package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/handlers/analytics"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/de-tools/campaign-atlas/pkg/services/pipeline"

	campaignmiddleware "github.com/de-tools/campaign-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	controller      pipeline.Controller
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Analyzer   analytics.Analyzer
	Runs       analytics.RunLister
	Controller pipeline.Controller
	Gatherer   prometheus.Gatherer
	Export     config.ExportSettings
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter mounts the API routes and, when a gatherer is given, the
// Prometheus scrape endpoint.
func ConfigureRouter(logger zerolog.Logger, config Config) *chi.Mux {
	deps := config.Dependencies
	handler := analytics.NewHandler(deps.Analyzer, deps.Runs, deps.Controller, deps.Export)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(campaignmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/roi/report", handler.GetROIReport)
		r.Get("/roi/channels", handler.GetChannelPerformance)
		r.Get("/segments/profiles", handler.GetSegmentProfiles)
		r.Get("/quality", handler.GetDataQuality)
		r.Get("/runs", handler.ListRuns)
		r.Post("/runs", handler.StartRun)
	})

	if deps.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		controller:      config.Dependencies.Controller,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		// A background pipeline run owns the run store; let it record its result.
		if w.controller != nil {
			w.logger.Info().Msg("waiting for pipeline run to finish")
			w.controller.Wait()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
