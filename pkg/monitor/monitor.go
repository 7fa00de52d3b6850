// Package monitor exposes the public monitoring operations: active
// workflows, executions summary, health report, and error forensics. It
// composes the gateway fetch capability with the analysis engine and owns
// the parameter policy (limit clamping, defaults). All state is per-call;
// a Monitor is safe for concurrent use.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowpulse/flowpulse/pkg/analysis"
	"github.com/flowpulse/flowpulse/pkg/eventbus"
	"github.com/flowpulse/flowpulse/pkg/events"
	"github.com/flowpulse/flowpulse/pkg/gateway"
	"github.com/flowpulse/flowpulse/pkg/models"
	"github.com/flowpulse/flowpulse/pkg/otelhelper"
	"github.com/flowpulse/flowpulse/pkg/severity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Limit policy: out-of-range limits are clamped, not rejected.
const (
	MinLimit              = 1
	MaxLimit              = 100
	DefaultExecutionLimit = 50
	DefaultErrorLimit     = 5
)

type Monitor struct {
	gateway    gateway.Client
	classifier severity.Classifier
	bus        eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClassifier replaces the default keyword severity classifier.
func WithClassifier(classifier severity.Classifier) Option {
	return func(m *Monitor) {
		m.classifier = classifier
	}
}

// WithEventBus enables notification events after report assembly.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(m *Monitor) {
		m.bus = bus
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// WithTracer enables span emission around operations.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Monitor) {
		m.tracer = tracer
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New creates a Monitor over the given fetch capability.
func New(gw gateway.Client, opts ...Option) *Monitor {
	m := &Monitor{
		gateway:    gw,
		classifier: severity.NewKeyword(),
		logger:     slog.Default(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// ActiveWorkflows fetches and summarizes the active workflow snapshot.
func (m *Monitor) ActiveWorkflows(ctx context.Context) (analysis.WorkflowsReport, *analysis.Diagnostics, error) {
	ctx, end := m.startSpan(ctx, "monitor.active_workflows")
	defer end()

	workflows, diags, err := m.fetchWorkflows(ctx)
	if err != nil {
		return analysis.WorkflowsReport{}, diags, err
	}

	report := analysis.AssembleWorkflowsReport(workflows)

	m.publish(ctx, events.ReportGenerated{
		BaseEvent: events.NewBaseEvent(events.ReportGeneratedEvent),
		Operation: "get_active_workflows",
		Total:     report.Count,
	})

	return report, diags, nil
}

// WorkflowExecutions fetches the most recent executions and aggregates KPIs
// over them. Insights are attached only when includeKPIs is set.
func (m *Monitor) WorkflowExecutions(ctx context.Context, limit int, includeKPIs bool) (analysis.ExecutionsReport, *analysis.Diagnostics, error) {
	limit = clampLimit(limit, DefaultExecutionLimit)

	ctx, end := m.startSpan(ctx, "monitor.workflow_executions", attribute.Int(otelhelper.LimitKey, limit))
	defer end()

	executions, diags, err := m.fetchExecutions(ctx, limit)
	if err != nil {
		return analysis.ExecutionsReport{}, diags, err
	}

	kpis := analysis.Aggregate(executions)
	report := analysis.AssembleExecutionsReport(kpis, includeKPIs)

	m.publish(ctx, events.ReportGenerated{
		BaseEvent: events.NewBaseEvent(events.ReportGeneratedEvent),
		Operation: "get_workflow_executions",
		Total:     kpis.Summary.Total,
		Failed:    kpis.Summary.Failed,
		Status:    analysis.ClassifyRate(kpis.Summary.FailureRate, kpis.Summary.InsufficientData),
	})

	return report, diags, nil
}

// HealthReport classifies every workflow over the recent execution window
// and assembles the instance-wide report.
func (m *Monitor) HealthReport(ctx context.Context, limit int) (analysis.HealthReport, *analysis.Diagnostics, error) {
	limit = clampLimit(limit, DefaultExecutionLimit)

	ctx, end := m.startSpan(ctx, "monitor.health_report", attribute.Int(otelhelper.LimitKey, limit))
	defer end()

	executions, diags, err := m.fetchExecutions(ctx, limit)
	if err != nil {
		return analysis.HealthReport{}, diags, err
	}

	workflows, workflowDiags, err := m.fetchWorkflows(ctx)
	if err != nil {
		diags.Merge(workflowDiags)

		return analysis.HealthReport{}, diags, err
	}

	diags.Merge(workflowDiags)

	kpis := analysis.Aggregate(executions)
	partition := analysis.ClassifyWorkflows(workflows, executions)
	report := analysis.AssembleHealthReport(m.now().UTC(), kpis, partition)

	m.publish(ctx, events.ReportGenerated{
		BaseEvent: events.NewBaseEvent(events.ReportGeneratedEvent),
		Operation: "get_workflow_health_report",
		Total:     kpis.Summary.Total,
		Failed:    kpis.Summary.Failed,
		Status:    report.Overall.Status,
	})

	for _, wf := range partition.Problematic {
		if wf.Status != models.HealthStatusCritical {
			continue
		}

		m.publish(ctx, events.WorkflowCritical{
			BaseEvent:    events.NewBaseEvent(events.WorkflowCriticalEvent),
			WorkflowID:   wf.WorkflowID,
			WorkflowName: wf.WorkflowName,
			FailureRate:  wf.KPIs.Summary.FailureRate,
		})
	}

	return report, diags, nil
}

// ErrorExecutions runs error forensics for one workflow.
func (m *Monitor) ErrorExecutions(ctx context.Context, workflowID string, limit int) (analysis.ErrorReport, *analysis.Diagnostics, error) {
	if workflowID == "" {
		return analysis.ErrorReport{}, &analysis.Diagnostics{}, ErrWorkflowIDRequired
	}

	limit = clampLimit(limit, DefaultErrorLimit)

	ctx, end := m.startSpan(ctx, "monitor.error_executions",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.Int(otelhelper.LimitKey, limit),
	)
	defer end()

	records, err := m.gateway.Fetch(ctx, gateway.Request{
		Action:     gateway.ActionExecutionDetails,
		Limit:      limit,
		WorkflowID: workflowID,
	})
	if err != nil {
		return analysis.ErrorReport{}, &analysis.Diagnostics{}, err
	}

	executions, diags := analysis.NormalizeExecutions(records)
	forensics := analysis.AnalyzeErrors(workflowID, executions, limit, m.classifier)
	report := analysis.AssembleErrorReport(forensics)

	m.publish(ctx, events.ReportGenerated{
		BaseEvent: events.NewBaseEvent(events.ReportGeneratedEvent),
		Operation: "get_error_executions",
		Total:     forensics.TotalExecutions,
		Failed:    forensics.ErrorCount,
	})

	return report, diags, nil
}

func (m *Monitor) fetchWorkflows(ctx context.Context) ([]models.Workflow, *analysis.Diagnostics, error) {
	records, err := m.gateway.Fetch(ctx, gateway.Request{Action: gateway.ActionActiveWorkflows})
	if err != nil {
		return nil, &analysis.Diagnostics{}, err
	}

	workflows, diags := analysis.NormalizeWorkflows(records)

	return workflows, diags, nil
}

func (m *Monitor) fetchExecutions(ctx context.Context, limit int) ([]models.Execution, *analysis.Diagnostics, error) {
	records, err := m.gateway.Fetch(ctx, gateway.Request{
		Action: gateway.ActionWorkflowExecutions,
		Limit:  limit,
	})
	if err != nil {
		return nil, &analysis.Diagnostics{}, err
	}

	executions, diags := analysis.NormalizeExecutions(records)

	// Gateways may ignore the limit; the window is enforced here.
	if len(executions) > limit {
		executions = executions[:limit]
	}

	return executions, diags, nil
}

// publish emits a notification event. Bus failures are logged and never fail
// the operation that produced the report.
func (m *Monitor) publish(ctx context.Context, event eventbus.Event) {
	if m.bus == nil {
		return
	}

	if err := m.bus.Publish(ctx, string(event.GetType()), event); err != nil {
		m.logger.Warn("Failed to publish notification event", "event_type", event.GetType(), "error", err)
	}
}

func (m *Monitor) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func()) {
	if m.tracer == nil {
		return ctx, func() {}
	}

	ctx, span := otelhelper.StartSpan(ctx, m.tracer, name, attrs...)

	return ctx, func() { span.End() }
}

func clampLimit(limit, fallback int) int {
	if limit == 0 {
		return fallback
	}

	if limit < MinLimit {
		return MinLimit
	}

	if limit > MaxLimit {
		return MaxLimit
	}

	return limit
}
