// Package web provides the HTTP handlers exposing the monitoring operations.
package web

import (
	"log/slog"
	"strconv"

	"github.com/flowpulse/flowpulse/pkg/analysis"
	"github.com/flowpulse/flowpulse/pkg/monitor"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	monitor   *monitor.Monitor
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandlers(m *monitor.Monitor, validate *validator.Validate, logger *slog.Logger) *Handlers {
	return &Handlers{
		monitor:   m,
		validator: validate,
		logger:    logger,
	}
}

// executionsQuery carries the parsed query parameters of the executions
// endpoint. Limits outside [1,100] are clamped downstream, never rejected;
// only non-numeric input is a validation error.
type executionsQuery struct {
	Limit       int  `validate:"omitempty,number"`
	IncludeKPIs bool
}

func (h *Handlers) GetActiveWorkflows(c fiber.Ctx) error {
	report, diags, err := h.monitor.ActiveWorkflows(c.Context())
	if err != nil {
		return h.handleOperationError(c, err)
	}

	h.logDiagnostics(c, diags)

	return c.JSON(fiber.Map{
		"count":       report.Count,
		"workflows":   report.Workflows,
		"summary":     report.Summary,
		"diagnostics": diags,
	})
}

func (h *Handlers) GetWorkflowExecutions(c fiber.Ctx) error {
	query, err := h.parseExecutionsQuery(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	report, diags, err := h.monitor.WorkflowExecutions(c.Context(), query.Limit, query.IncludeKPIs)
	if err != nil {
		return h.handleOperationError(c, err)
	}

	h.logDiagnostics(c, diags)

	return c.JSON(fiber.Map{
		"summary":         report.Summary,
		"timing":          report.Timing,
		"execution_modes": report.Modes,
		"insights":        report.Insights,
		"diagnostics":     diags,
	})
}

func (h *Handlers) GetHealthReport(c fiber.Ctx) error {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return badRequest(c, "Invalid limit parameter: "+err.Error())
	}

	report, diags, err := h.monitor.HealthReport(c.Context(), limit)
	if err != nil {
		return h.handleOperationError(c, err)
	}

	h.logDiagnostics(c, diags)

	return c.JSON(report)
}

func (h *Handlers) GetErrorExecutions(c fiber.Ctx) error {
	workflowID := c.Params("id")

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return badRequest(c, "Invalid limit parameter: "+err.Error())
	}

	report, diags, err := h.monitor.ErrorExecutions(c.Context(), workflowID, limit)
	if err != nil {
		return h.handleOperationError(c, err)
	}

	h.logDiagnostics(c, diags)

	return c.JSON(report)
}

func (h *Handlers) parseExecutionsQuery(c fiber.Ctx) (*executionsQuery, error) {
	query := &executionsQuery{IncludeKPIs: true}

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return nil, err
	}

	query.Limit = limit

	if includeKPIsStr := c.Query("include_kpis"); includeKPIsStr != "" {
		includeKPIs, err := strconv.ParseBool(includeKPIsStr)
		if err != nil {
			return nil, err
		}

		query.IncludeKPIs = includeKPIs
	}

	if err := h.validator.Struct(query); err != nil {
		return nil, err
	}

	return query, nil
}

// parseLimit rejects only non-numeric input; range enforcement is clamping,
// done by the monitor.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	return strconv.Atoi(raw)
}

func (h *Handlers) logDiagnostics(c fiber.Ctx, diags *analysis.Diagnostics) {
	if diags == nil || (diags.MalformedRecords == 0 && diags.MalformedWorkflows == 0) {
		return
	}

	h.logger.Warn("Malformed records in gateway response",
		"path", c.Path(),
		"malformed_records", diags.MalformedRecords,
		"malformed_workflows", diags.MalformedWorkflows,
	)
}

func (h *Handlers) handleOperationError(c fiber.Ctx, err error) error {
	switch {
	case monitor.IsInvalidParameter(err):
		return badRequest(c, err.Error())
	case monitor.IsUpstreamFailure(err):
		h.logger.Error("Gateway fetch failed", "path", c.Path(), "error", err)

		return upstreamError(c, err)
	default:
		h.logger.Error("Operation failed", "path", c.Path(), "error", err)

		return internalError(c, err)
	}
}
