package web_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowpulse/flowpulse/pkg/gateway"
	"github.com/flowpulse/flowpulse/pkg/monitor"
	"github.com/flowpulse/flowpulse/pkg/testutil"
	"github.com/flowpulse/flowpulse/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway answers fetches from canned records, keyed by action.
type fakeGateway struct {
	responses map[gateway.Action][]map[string]any
	err       error
}

func (f *fakeGateway) Fetch(_ context.Context, req gateway.Request) ([]map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.responses[req.Action], nil
}

func setupTestApp(t *testing.T, gw gateway.Client) *fiber.App {
	t.Helper()

	m := monitor.New(gw, monitor.WithLogger(slog.Default()))
	validate := validator.New(validator.WithRequiredStructEnabled())
	handlers := web.NewHandlers(m, validate, slog.Default())

	app := fiber.New()
	app.Get("/workflows/active", handlers.GetActiveWorkflows)
	app.Get("/workflows/:id/errors", handlers.GetErrorExecutions)
	app.Get("/executions", handlers.GetWorkflowExecutions)
	app.Get("/health-report", handlers.GetHealthReport)

	return app
}

func TestGetActiveWorkflows(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{responses: map[gateway.Action][]map[string]any{
		gateway.ActionActiveWorkflows: {
			testutil.WorkflowRecord("wf-1", "Order Sync", true),
		},
	}}

	app := setupTestApp(t, gw)

	req := httptest.NewRequest(http.MethodGet, "/workflows/active", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count   int `json:"count"`
		Summary struct {
			Names []string `json:"names"`
		} `json:"summary"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, []string{"Order Sync"}, body.Summary.Names)
}

func TestGetWorkflowExecutions_QueryParsing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		wantInsights   bool
	}{
		{
			name:           "defaults include insights",
			target:         "/executions",
			expectedStatus: http.StatusOK,
			wantInsights:   true,
		},
		{
			name:           "include_kpis false omits insights",
			target:         "/executions?include_kpis=false",
			expectedStatus: http.StatusOK,
			wantInsights:   false,
		},
		{
			name:           "out-of-range limit is clamped, not rejected",
			target:         "/executions?limit=9999",
			expectedStatus: http.StatusOK,
			wantInsights:   true,
		},
		{
			name:           "non-numeric limit rejected",
			target:         "/executions?limit=ten",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-boolean include_kpis rejected",
			target:         "/executions?include_kpis=maybe",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gw := &fakeGateway{responses: map[gateway.Action][]map[string]any{
				gateway.ActionWorkflowExecutions: {
					testutil.ExecutionRecord(testutil.WithStatus("success")),
				},
			}}

			app := setupTestApp(t, gw)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)

			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus != http.StatusOK {
				return
			}

			var body struct {
				Insights *struct {
					Status string `json:"status"`
				} `json:"insights"`
			}

			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			if tt.wantInsights {
				assert.NotNil(t, body.Insights)
			} else {
				assert.Nil(t, body.Insights)
			}
		})
	}
}

func TestGetErrorExecutions_BadLimit(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t, &fakeGateway{})

	req := httptest.NewRequest(http.MethodGet, "/workflows/wf-1/errors?limit=bad", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var problem struct {
		Type   string `json:"type"`
		Status int    `json:"status"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Equal(t, "validation_error", problem.Type)
	assert.Equal(t, http.StatusBadRequest, problem.Status)
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{err: &gateway.FetchError{
		Action:     gateway.ActionWorkflowExecutions,
		StatusCode: http.StatusServiceUnavailable,
	}}

	app := setupTestApp(t, gw)

	req := httptest.NewRequest(http.MethodGet, "/executions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var problem struct {
		Type string `json:"type"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Equal(t, "upstream_fetch_failure", problem.Type)
}

func TestHealthReportEndpoint(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{responses: map[gateway.Action][]map[string]any{
		gateway.ActionActiveWorkflows: {
			testutil.WorkflowRecord("wf-1", "Importer", true),
		},
		gateway.ActionWorkflowExecutions: {
			testutil.ExecutionRecord(testutil.WithWorkflowID("wf-1"), testutil.WithStatus("success")),
		},
	}}

	app := setupTestApp(t, gw)

	req := httptest.NewRequest(http.MethodGet, "/health-report", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Healthy []struct {
			WorkflowID string `json:"workflow_id"`
		} `json:"healthy_workflows"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Healthy, 1)
	assert.Equal(t, "wf-1", body.Healthy[0].WorkflowID)
}
