package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/de-tools/campaign-atlas/pkg/adapters"
	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/models/api"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/de-tools/campaign-atlas/pkg/services/pipeline"
	"github.com/rs/zerolog"
)

const defaultRunsLimit = 20

// Analyzer computes the read-only stages of the pipeline on demand.
type Analyzer interface {
	Analyze(ctx context.Context) (*pipeline.Result, error)
}

type RunLister interface {
	List(ctx context.Context, limit int) ([]domain.PipelineRun, error)
}

type Handler struct {
	analyzer   Analyzer
	runs       RunLister
	controller pipeline.Controller
	defaults   config.ExportSettings
}

func NewHandler(
	analyzer Analyzer,
	runs RunLister,
	controller pipeline.Controller,
	defaults config.ExportSettings,
) *Handler {
	return &Handler{
		analyzer:   analyzer,
		runs:       runs,
		controller: controller,
		defaults:   defaults,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code errs.Code, message string) {
	writeJSON(w, r, status, api.ErrorResponse{
		Error: api.ErrorBody{Code: string(code), Message: message},
	})
}

func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.StatusCode(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	var classified *errs.Error
	message := err.Error()
	if errors.As(err, &classified) {
		message = classified.Message
	}
	writeError(w, r, status, errs.CodeOf(err), message)
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	res, err := h.analyzer.Analyze(r.Context())
	if err != nil {
		writeFailure(w, r, err)
		return nil, false
	}
	return res, true
}

func (h *Handler) GetROIReport(w http.ResponseWriter, r *http.Request) {
	res, ok := h.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapROIReportToAPI(&res.Report))
}

func (h *Handler) GetChannelPerformance(w http.ResponseWriter, r *http.Request) {
	res, ok := h.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapChannelSummariesToAPI(res.Report.Channels))
}

func (h *Handler) GetSegmentProfiles(w http.ResponseWriter, r *http.Request) {
	res, ok := h.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, api.SegmentsResponse{
		Segments: adapters.MapSegmentProfilesToAPI(res.Segments),
	})
}

func (h *Handler) GetDataQuality(w http.ResponseWriter, r *http.Request) {
	res, ok := h.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, api.QualityResponse{
		Campaigns: adapters.MapQualityReportToAPI(res.CampaignQuality),
		Customers: adapters.MapQualityReportToAPI(res.CustomerQuality),
	})
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, errs.CodeValidation, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.runs.List(ctx, limit)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.RunsResponse{Runs: adapters.MapRunsToAPI(runs)})
}

// StartRun launches a full pipeline run in the background and answers with
// its id. Only one run may be active at a time.
func (h *Handler) StartRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, errs.CodeValidation, "invalid request body")
		return
	}

	opts := pipeline.Options{
		ExportPowerBI: h.defaults.PowerBI,
		Workbook:      h.defaults.Workbook,
		SkipErrors:    req.SkipErrors,
	}
	if req.ExportPowerBI != nil {
		opts.ExportPowerBI = *req.ExportPowerBI
	}
	if req.Workbook != nil {
		opts.Workbook = *req.Workbook
	}

	id, err := h.controller.Start(ctx, opts)
	if errors.Is(err, pipeline.ErrRunInProgress) {
		writeError(w, r, http.StatusConflict, errs.CodeValidation, err.Error())
		return
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	logger.Info().Str("run_id", id).Msg("pipeline run started")
	writeJSON(w, r, http.StatusAccepted, api.RunAccepted{ID: id, Status: string(domain.RunStatusRunning)})
}
