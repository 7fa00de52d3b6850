package analysis_test

import (
	"testing"
	"time"

	"github.com/flowpulse/flowpulse/pkg/analysis"
	"github.com/flowpulse/flowpulse/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWorkflows(t *testing.T) {
	t.Parallel()

	records := []map[string]any{
		{
			"id":         "wf-1",
			"name":       "Order Sync",
			"active":     true,
			"createdAt":  "2025-01-10T08:00:00Z",
			"updatedAt":  "2025-02-01T09:30:00Z",
			"isArchived": "false",
		},
		{
			"id":         float64(42),
			"isArchived": "true",
		},
		{
			// No id at all: malformed, skipped.
			"name": "Ghost",
		},
	}

	workflows, diags := analysis.NormalizeWorkflows(records)

	require.Len(t, workflows, 2)
	assert.Equal(t, 1, diags.MalformedWorkflows)

	assert.Equal(t, "wf-1", workflows[0].ID)
	assert.Equal(t, "Order Sync", workflows[0].Name)
	assert.True(t, workflows[0].Active)
	assert.False(t, workflows[0].Archived)
	assert.Equal(t, time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC), workflows[0].CreatedAt)

	// Numeric id coerced, missing name defaulted, string bool coerced.
	assert.Equal(t, "42", workflows[1].ID)
	assert.Equal(t, "Unnamed", workflows[1].Name)
	assert.True(t, workflows[1].Archived)
}

func TestNormalizeExecutions(t *testing.T) {
	t.Parallel()

	records := []map[string]any{
		{
			"id":         "exec-1",
			"workflowId": "wf-1",
			"status":     "success",
			"mode":       "webhook",
			"startedAt":  "2025-03-01T12:00:00Z",
			"stoppedAt":  "2025-03-01T12:00:01Z",
			"finished":   true,
		},
		{
			"id":         "exec-2",
			"workflowId": "wf-1",
			"status":     "error",
			"mode":       "trigger",
			"startedAt":  "2025-03-01T13:00:00Z",
			"error": map[string]any{
				"node": map[string]any{
					"name":     "HTTP Request",
					"type":     "n8n-nodes-base.httpRequest",
					"position": []any{float64(420), float64(120)},
				},
				"message": "timeout",
				"level":   "warning",
			},
			"triggerContext": map[string]any{"action": "order.created"},
		},
	}

	executions, diags := analysis.NormalizeExecutions(records)

	require.Len(t, executions, 2)
	assert.Zero(t, diags.MalformedRecords)

	// Ordered most-recent-first by start time.
	assert.Equal(t, "exec-2", executions[0].ID)
	assert.Equal(t, "exec-1", executions[1].ID)

	errExec := executions[0]
	require.NotNil(t, errExec.Error)
	assert.Equal(t, "HTTP Request", errExec.Error.NodeName)
	assert.Equal(t, "n8n-nodes-base.httpRequest", errExec.Error.NodeType)
	assert.Equal(t, []int{420, 120}, errExec.Error.NodePosition)
	assert.Equal(t, "timeout", errExec.Error.Message)
	assert.Equal(t, models.SeverityWarning, errExec.Error.Severity)
	assert.Equal(t, "order.created", errExec.Trigger["action"])

	ms, defined := executions[1].DurationMS()
	require.True(t, defined)
	assert.Equal(t, int64(1000), ms)
}

func TestNormalizeExecutionsSyntheticErrorDetail(t *testing.T) {
	t.Parallel()

	records := []map[string]any{
		{
			"id":         "exec-9",
			"workflowId": "wf-1",
			"status":     "error",
		},
	}

	executions, diags := analysis.NormalizeExecutions(records)

	require.Len(t, executions, 1)
	require.NotNil(t, executions[0].Error)
	assert.Equal(t, models.UnknownNodeName, executions[0].Error.NodeName)
	assert.Equal(t, 1, diags.MalformedRecords)
}

func TestNormalizeExecutionsBadTimestampIsAbsent(t *testing.T) {
	t.Parallel()

	records := []map[string]any{
		{
			"id":        "exec-1",
			"status":    "success",
			"startedAt": "not-a-timestamp",
			"stoppedAt": "also-not",
		},
	}

	executions, diags := analysis.NormalizeExecutions(records)

	require.Len(t, executions, 1)
	assert.Nil(t, executions[0].StartedAt)
	assert.Nil(t, executions[0].StoppedAt)
	assert.Zero(t, diags.MalformedRecords)

	_, defined := executions[0].DurationMS()
	assert.False(t, defined)
}

func TestNormalizeExecutionsUnknownStatusAndMode(t *testing.T) {
	t.Parallel()

	records := []map[string]any{
		{"id": "exec-1", "status": "exploded", "mode": ""},
	}

	executions, _ := analysis.NormalizeExecutions(records)

	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionStatusUnknown, executions[0].Status)
	assert.Equal(t, models.ExecutionModeUnknown, executions[0].Mode)
}

func TestNormalizeExecutionsNilStartSortsLast(t *testing.T) {
	t.Parallel()

	records := []map[string]any{
		{"id": "no-start", "status": "running"},
		{"id": "started", "status": "success", "startedAt": "2025-03-01T12:00:00Z"},
	}

	executions, _ := analysis.NormalizeExecutions(records)

	require.Len(t, executions, 2)
	assert.Equal(t, "started", executions[0].ID)
	assert.Equal(t, "no-start", executions[1].ID)
}
