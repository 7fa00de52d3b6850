package analysis_test

import (
	"testing"

	"github.com/flowpulse/flowpulse/pkg/analysis"
	"github.com/flowpulse/flowpulse/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRateBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		rate         float64
		insufficient bool
		expected     models.HealthStatus
	}{
		{name: "zero rate", rate: 0, expected: models.HealthStatusHealthy},
		{name: "just below warning", rate: 9.99, expected: models.HealthStatusHealthy},
		{name: "exactly warning threshold", rate: 10.0, expected: models.HealthStatusWarning},
		{name: "between thresholds", rate: 18.5, expected: models.HealthStatusWarning},
		{name: "just below critical", rate: 24.99, expected: models.HealthStatusWarning},
		{name: "exactly critical threshold", rate: 25.0, expected: models.HealthStatusCritical},
		{name: "fully failing", rate: 100.0, expected: models.HealthStatusCritical},
		{name: "no data is unknown not healthy", rate: 0, insufficient: true, expected: models.HealthStatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, analysis.ClassifyRate(tt.rate, tt.insufficient))
		})
	}
}

func makeExecutions(workflowID string, succeeded, failed int) []models.Execution {
	executions := make([]models.Execution, 0, succeeded+failed)

	for range succeeded {
		executions = append(executions, models.Execution{WorkflowID: workflowID, Status: models.ExecutionStatusSuccess})
	}

	for range failed {
		executions = append(executions, models.Execution{WorkflowID: workflowID, Status: models.ExecutionStatusError})
	}

	return executions
}

func TestClassifyWorkflowsPartitions(t *testing.T) {
	t.Parallel()

	workflows := []models.Workflow{
		{ID: "wf-healthy", Name: "Nightly Sync"},
		{ID: "wf-warning", Name: "Invoice Export"},
		{ID: "wf-critical", Name: "Ad Hoc Import"},
		{ID: "wf-silent", Name: "Dormant"},
	}

	var executions []models.Execution
	executions = append(executions, makeExecutions("wf-healthy", 20, 1)...)  // ~4.76%
	executions = append(executions, makeExecutions("wf-warning", 9, 1)...)   // exactly 10%
	executions = append(executions, makeExecutions("wf-critical", 1, 3)...)  // 75%
	// wf-silent has no executions in the window.

	partition := analysis.ClassifyWorkflows(workflows, executions)

	require.Len(t, partition.Problematic, 2)
	require.Len(t, partition.Healthy, 1)
	require.Len(t, partition.NoData, 1)

	// Problematic sorted by failure rate descending.
	assert.Equal(t, "wf-critical", partition.Problematic[0].WorkflowID)
	assert.Equal(t, models.HealthStatusCritical, partition.Problematic[0].Status)
	assert.True(t, partition.Problematic[0].NeedsAttention)

	assert.Equal(t, "wf-warning", partition.Problematic[1].WorkflowID)
	assert.Equal(t, models.HealthStatusWarning, partition.Problematic[1].Status)

	assert.Equal(t, "wf-healthy", partition.Healthy[0].WorkflowID)
	assert.False(t, partition.Healthy[0].NeedsAttention)

	assert.Equal(t, "wf-silent", partition.NoData[0].WorkflowID)
	assert.Equal(t, models.HealthStatusUnknown, partition.NoData[0].Status)
}

func TestClassifyWorkflowsUnknownWorkflowGetsPlaceholderName(t *testing.T) {
	t.Parallel()

	executions := makeExecutions("wf-mystery", 5, 0)

	partition := analysis.ClassifyWorkflows(nil, executions)

	require.Len(t, partition.Healthy, 1)
	assert.Equal(t, "Unknown (wf-mystery)", partition.Healthy[0].WorkflowName)
}

func TestClassifyWorkflowsNeverSucceededNeedsAttention(t *testing.T) {
	t.Parallel()

	// Attempts exist but none succeeded and none failed outright (unknown
	// terminal status): rate is 0 so the status is Healthy, yet the workflow
	// still needs attention.
	executions := []models.Execution{
		{WorkflowID: "wf-1", Status: models.ExecutionStatusUnknown},
		{WorkflowID: "wf-1", Status: models.ExecutionStatusUnknown},
	}

	partition := analysis.ClassifyWorkflows([]models.Workflow{{ID: "wf-1", Name: "Stuck"}}, executions)

	require.Len(t, partition.Healthy, 1)
	assert.True(t, partition.Healthy[0].NeedsAttention)
}

func TestClassifyWorkflowsOnlyRunningIsUnknown(t *testing.T) {
	t.Parallel()

	executions := []models.Execution{
		{WorkflowID: "wf-1", Status: models.ExecutionStatusRunning},
	}

	partition := analysis.ClassifyWorkflows([]models.Workflow{{ID: "wf-1", Name: "Busy"}}, executions)

	require.Len(t, partition.Healthy, 1)
	assert.Equal(t, models.HealthStatusUnknown, partition.Healthy[0].Status)
	assert.False(t, partition.Healthy[0].NeedsAttention)
}
