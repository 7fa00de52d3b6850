package analysis

import (
	"sort"

	"github.com/flowpulse/flowpulse/pkg/models"
)

// Failure-rate thresholds in percent. Applied identically at instance and
// per-workflow granularity; there is no per-workflow override. Boundaries
// are inclusive of the higher-severity bucket: exactly 10% is Warning,
// exactly 25% is Critical.
const (
	WarningThresholdPercent  = 10.0
	CriticalThresholdPercent = 25.0
)

// ClassifyRate maps a failure rate to a health status. A window with no
// rateable executions is Unknown, never Healthy.
func ClassifyRate(failureRate float64, insufficientData bool) models.HealthStatus {
	switch {
	case insufficientData:
		return models.HealthStatusUnknown
	case failureRate >= CriticalThresholdPercent:
		return models.HealthStatusCritical
	case failureRate >= WarningThresholdPercent:
		return models.HealthStatusWarning
	default:
		return models.HealthStatusHealthy
	}
}

// WorkflowHealth is the per-workflow classification within a health report.
type WorkflowHealth struct {
	WorkflowID     string              `json:"workflow_id"`
	WorkflowName   string              `json:"workflow_name"`
	Status         models.HealthStatus `json:"status"`
	NeedsAttention bool                `json:"needs_attention"`
	KPIs           KPIs                `json:"metrics"`
}

// HealthPartition buckets workflows by classification. Workflows with no
// executions in the window land in NoData so callers can distinguish
// silence from health.
type HealthPartition struct {
	Problematic []WorkflowHealth `json:"problematic_workflows"`
	Healthy     []WorkflowHealth `json:"healthy_workflows"`
	NoData      []WorkflowHealth `json:"no_data_workflows"`
}

// ClassifyWorkflows computes per-workflow health over the supplied window
// and partitions the workflows. Executions referencing workflows absent from
// the snapshot are still classified, rendered with a placeholder name.
// Problematic workflows are sorted by failure rate descending; other buckets
// keep snapshot order.
func ClassifyWorkflows(workflows []models.Workflow, executions []models.Execution) HealthPartition {
	byWorkflow := make(map[string][]models.Execution)
	for _, exec := range executions {
		byWorkflow[exec.WorkflowID] = append(byWorkflow[exec.WorkflowID], exec)
	}

	names := make(map[string]string, len(workflows))
	ordered := make([]string, 0, len(workflows))

	for _, wf := range workflows {
		names[wf.ID] = wf.Name
		ordered = append(ordered, wf.ID)
	}

	// Workflows seen only in the execution stream, first-seen order.
	for _, exec := range executions {
		if _, known := names[exec.WorkflowID]; !known && exec.WorkflowID != "" {
			names[exec.WorkflowID] = "Unknown (" + exec.WorkflowID + ")"
			ordered = append(ordered, exec.WorkflowID)
		}
	}

	var partition HealthPartition

	for _, id := range ordered {
		execs := byWorkflow[id]

		health := WorkflowHealth{
			WorkflowID:   id,
			WorkflowName: names[id],
		}

		if len(execs) == 0 {
			health.Status = models.HealthStatusUnknown
			partition.NoData = append(partition.NoData, health)

			continue
		}

		health.KPIs = Aggregate(execs)
		health.Status = ClassifyRate(health.KPIs.Summary.FailureRate, health.KPIs.Summary.InsufficientData)
		health.NeedsAttention = needsAttention(health.Status, health.KPIs.Summary)

		if health.Status == models.HealthStatusWarning || health.Status == models.HealthStatusCritical {
			partition.Problematic = append(partition.Problematic, health)
		} else {
			partition.Healthy = append(partition.Healthy, health)
		}
	}

	sort.SliceStable(partition.Problematic, func(i, j int) bool {
		return partition.Problematic[i].KPIs.Summary.FailureRate > partition.Problematic[j].KPIs.Summary.FailureRate
	})

	return partition
}

// needsAttention flags Warning/Critical workflows, plus the degenerate case
// of a workflow that attempted at least one run and never succeeded.
func needsAttention(status models.HealthStatus, summary Summary) bool {
	if status == models.HealthStatusWarning || status == models.HealthStatusCritical {
		return true
	}

	attempts := summary.Total - summary.Running

	return summary.Succeeded == 0 && attempts > 0
}
