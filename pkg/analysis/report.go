package analysis

import (
	"fmt"
	"time"

	"github.com/flowpulse/flowpulse/pkg/models"
)

// Insights decorates a numeric classification with human-readable glyphs and
// a message. Presentation only; the raw status and rates always travel
// alongside so callers never parse decorated strings.
type Insights struct {
	Status      models.HealthStatus `json:"status"`
	StatusLabel string              `json:"health_status"`
	Message     string              `json:"message"`
}

// WorkflowsReport is the public result of the active-workflows operation.
type WorkflowsReport struct {
	Count     int               `json:"count"`
	Workflows []models.Workflow `json:"workflows"`
	Summary   WorkflowsSummary  `json:"summary"`
}

// WorkflowsSummary carries the quick-glance name list.
type WorkflowsSummary struct {
	Total int      `json:"total"`
	Names []string `json:"names"`
}

// ExecutionsReport is the public result of the executions-summary operation.
// Insights is present only when the caller asked for KPIs.
type ExecutionsReport struct {
	KPIs
	Insights *Insights `json:"insights,omitempty"`
}

// HealthReport is the public result of the health-report operation.
type HealthReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Overall     Insights  `json:"overall_health"`
	KPIs
	HealthPartition
}

// ErrorReport is the public result of the error-forensics operation.
type ErrorReport struct {
	Forensics
}

// AssembleWorkflowsReport builds the active-workflows result shape.
func AssembleWorkflowsReport(workflows []models.Workflow) WorkflowsReport {
	names := make([]string, 0, len(workflows))
	for _, wf := range workflows {
		names = append(names, wf.Name)
	}

	return WorkflowsReport{
		Count:     len(workflows),
		Workflows: workflows,
		Summary: WorkflowsSummary{
			Total: len(workflows),
			Names: names,
		},
	}
}

// AssembleExecutionsReport builds the executions summary, attaching insights
// when KPIs were requested.
func AssembleExecutionsReport(kpis KPIs, includeKPIs bool) ExecutionsReport {
	report := ExecutionsReport{KPIs: kpis}

	if includeKPIs {
		insights := newInsights(kpis.Summary)
		report.Insights = &insights
	}

	return report
}

// AssembleHealthReport composes the instance-wide health report from the
// aggregate KPIs and the per-workflow partition.
func AssembleHealthReport(generatedAt time.Time, kpis KPIs, partition HealthPartition) HealthReport {
	return HealthReport{
		GeneratedAt:     generatedAt,
		Overall:         newInsights(kpis.Summary),
		KPIs:            kpis,
		HealthPartition: partition,
	}
}

// AssembleErrorReport wraps the forensics result as the public error report.
func AssembleErrorReport(forensics Forensics) ErrorReport {
	return ErrorReport{Forensics: forensics}
}

func newInsights(summary Summary) Insights {
	status := ClassifyRate(summary.FailureRate, summary.InsufficientData)

	message := fmt.Sprintf("%d executions with %.2f%% failure rate", summary.Total, summary.FailureRate)
	if summary.InsufficientData {
		message = "insufficient data: no rateable executions in the window"
	}

	return Insights{
		Status:      status,
		StatusLabel: StatusLabel(status),
		Message:     message,
	}
}

// StatusLabel renders the glyph-decorated label for a health status.
func StatusLabel(status models.HealthStatus) string {
	switch status {
	case models.HealthStatusHealthy:
		return "🟢 Healthy"
	case models.HealthStatusWarning:
		return "🟡 Warning"
	case models.HealthStatusCritical:
		return "🔴 Critical"
	default:
		return "⚪ Unknown"
	}
}
