package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/models/api"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/services/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context) (*pipeline.Result, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Result), args.Error(1)
}

type mockRuns struct {
	mock.Mock
}

func (m *mockRuns) List(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.PipelineRun), args.Error(1)
}

type mockController struct {
	mock.Mock
}

func (m *mockController) Start(ctx context.Context, opts pipeline.Options) (string, error) {
	args := m.Called(ctx, opts)
	return args.String(0), args.Error(1)
}

func (m *mockController) Cancel(ctx context.Context, runID string) error {
	return m.Called(ctx, runID).Error(0)
}

func (m *mockController) Wait() {
	m.Called()
}

func TestWebAPI(t *testing.T) {
	logger := zerolog.New(io.Discard)

	analyzer := &mockAnalyzer{}
	runs := &mockRuns{}
	ctrl := &mockController{}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	require.NotNil(t, pipeline.NewMetrics(registry))

	config := Config{
		Addr:            ":8085",
		ShutdownTimeout: 5 * time.Second,
		Dependencies: Dependencies{
			Analyzer:   analyzer,
			Runs:       runs,
			Controller: ctrl,
			Gatherer:   registry,
		},
	}
	router := ConfigureRouter(logger, config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	started := time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)
	roi := 150.0
	roas := 2.5

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name: "GetROIReport",
			path: "/api/v1/roi/report",
			setupMocks: func() {
				analyzer.On("Analyze", mock.Anything).Return(&pipeline.Result{
					Report: domain.ROIReport{
						Overall: domain.OverallMetrics{
							TotalCost: 600, TotalRevenue: 1500, TotalProfit: 900, OverallROI: 150, OverallROAS: 2.5,
						},
					},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected: api.ROIReport{
				Overall: api.OverallMetrics{
					TotalCost: 600, TotalRevenue: 1500, TotalProfit: 900, OverallROI: &roi, OverallROAS: &roas,
				},
				Channels:        []api.ChannelSummary{},
				TopCampaigns:    []api.CampaignRank{},
				BottomCampaigns: []api.CampaignRank{},
			},
			parseResponse: unmarshalResponse[api.ROIReport](),
		},
		{
			name: "GetSegmentProfiles_Degenerate",
			path: "/api/v1/segments/profiles",
			setupMocks: func() {
				analyzer.On("Analyze", mock.Anything).
					Return(nil, errs.Degenerate("feature revenue has missing values")).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expected: api.ErrorResponse{Error: api.ErrorBody{
				Code:    "COMPUTATION_DEGENERACY",
				Message: "feature revenue has missing values",
			}},
			parseResponse: unmarshalResponse[api.ErrorResponse](),
		},
		{
			name: "ListRuns",
			path: "/api/v1/runs?limit=1",
			setupMocks: func() {
				runs.On("List", mock.Anything, 1).Return([]domain.PipelineRun{{
					ID:        "run-1",
					Status:    domain.RunStatusRunning,
					StartedAt: started,
				}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected: api.RunsResponse{Runs: []api.PipelineRun{{
				ID:        "run-1",
				Status:    "running",
				StartedAt: started,
			}}},
			parseResponse: unmarshalResponse[api.RunsResponse](),
		},
		{
			name:   "StartRun",
			method: http.MethodPost,
			path:   "/api/v1/runs",
			body:   `{"skip_errors": true}`,
			setupMocks: func() {
				ctrl.On("Start", mock.Anything, pipeline.Options{SkipErrors: true}).Return("run-2", nil).Once()
			},
			expectedStatus: http.StatusAccepted,
			expected:       api.RunAccepted{ID: "run-2", Status: "running"},
			parseResponse:  unmarshalResponse[api.RunAccepted](),
		},
		{
			name:   "StartRun_Conflict",
			method: http.MethodPost,
			path:   "/api/v1/runs",
			setupMocks: func() {
				ctrl.On("Start", mock.Anything, mock.Anything).Return("", pipeline.ErrRunInProgress).Once()
			},
			expectedStatus: http.StatusConflict,
			expected: api.ErrorResponse{Error: api.ErrorBody{
				Code:    "VALIDATION_ERROR",
				Message: pipeline.ErrRunInProgress.Error(),
			}},
			parseResponse: unmarshalResponse[api.ErrorResponse](),
		},
		{
			name:           "Metrics",
			path:           "/metrics",
			setupMocks:     func() {},
			expectedStatus: http.StatusOK,
			expected:       true,
			parseResponse: func(data []byte) (interface{}, error) {
				return strings.Contains(string(data), "go_goroutines"), nil
			},
		},
		{
			name:           "UnknownRoute",
			path:           "/api/v1/workspaces",
			setupMocks:     func() {},
			expectedStatus: http.StatusNotFound,
			expected:       "404 page not found\n",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			method := tc.method
			if method == "" {
				method = http.MethodGet
			}
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req, err := http.NewRequest(method, testServer.URL+tc.path, body)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(data)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}

	analyzer.AssertExpectations(t)
	runs.AssertExpectations(t)
	ctrl.AssertExpectations(t)
}

func TestNewWebAPI_DefaultShutdownTimeout(t *testing.T) {
	web := NewWebAPI(zerolog.Nop(), Config{Addr: ":0"})
	assert.Equal(t, defaultShutdownTimeout, web.shutdownTimeout)
	assert.Equal(t, ":0", web.server.Addr)
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
