package analysis

import (
	"sort"
	"time"

	"github.com/flowpulse/flowpulse/pkg/models"
	"github.com/flowpulse/flowpulse/pkg/severity"
)

// ErrorEntry is one analyzed error execution with its node attribution and
// trigger context.
type ErrorEntry struct {
	ExecutionID    string               `json:"execution_id"`
	WorkflowName   string               `json:"workflow_name,omitempty"`
	Mode           models.ExecutionMode `json:"mode"`
	StartedAt      *time.Time           `json:"started_at,omitempty"`
	StoppedAt      *time.Time           `json:"stopped_at,omitempty"`
	DurationMS     *int64               `json:"duration_ms,omitempty"`
	Finished       bool                 `json:"finished"`
	RetryOf        string               `json:"retry_of,omitempty"`
	RetrySuccessID string               `json:"retry_success_id,omitempty"`
	NodeName       string               `json:"node_name"`
	NodeType       string               `json:"node_type,omitempty"`
	NodePosition   []int                `json:"node_position,omitempty"`
	Message        string               `json:"message"`
	Severity       models.Severity      `json:"severity"`
	Trigger        map[string]any       `json:"trigger,omitempty"`
}

// NodeFailureCount ranks a node by how many analyzed errors it raised.
type NodeFailureCount struct {
	Node  string `json:"node"`
	Count int    `json:"count"`
}

// ErrorCluster groups analyzed errors sharing a normalized message key.
type ErrorCluster struct {
	Count               int      `json:"count"`
	NodeTypes           []string `json:"node_types,omitempty"`
	ExampleExecutionIDs []string `json:"example_execution_ids"`
}

// TimeRange spans the earliest and latest start times among analyzed errors.
type TimeRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// Forensics is the error analysis for one workflow. A zero ErrorCount with a
// nil TimeRange is a valid outcome; TotalExecutions distinguishes a healthy
// workflow from one with no executions at all.
type Forensics struct {
	WorkflowID        string                  `json:"workflow_id"`
	WorkflowName      string                  `json:"workflow_name,omitempty"`
	TotalExecutions   int                     `json:"total_executions"`
	ErrorCount        int                     `json:"error_count"`
	Errors            []ErrorEntry            `json:"errors"`
	NodeFailureCounts []NodeFailureCount      `json:"node_failure_counts"`
	ErrorClusters     map[string]ErrorCluster `json:"error_clusters"`
	TimeRange         *TimeRange              `json:"time_range,omitempty"`
}

// AnalyzeErrors extracts the most recent error executions for a workflow,
// attributes each failure to its originating node, clusters errors by
// normalized message, and computes per-node failure frequency. The limit
// bounds how many most-recent errors are analyzed; executions is expected
// to already be filtered to the workflow and ordered most-recent-first.
func AnalyzeErrors(workflowID string, executions []models.Execution, limit int, classifier severity.Classifier) Forensics {
	result := Forensics{
		WorkflowID:    workflowID,
		Errors:        []ErrorEntry{},
		ErrorClusters: make(map[string]ErrorCluster),
	}

	for _, exec := range executions {
		if exec.WorkflowID != workflowID && exec.WorkflowID != "" && workflowID != "" {
			continue
		}

		result.TotalExecutions++

		if result.WorkflowName == "" {
			result.WorkflowName = exec.WorkflowName
		}

		if exec.Status != models.ExecutionStatusError || len(result.Errors) >= limit {
			continue
		}

		result.Errors = append(result.Errors, newErrorEntry(exec, classifier))
	}

	result.ErrorCount = len(result.Errors)
	result.NodeFailureCounts = rankNodeFailures(result.Errors)

	for _, entry := range result.Errors {
		key := classifier.ClusterKey(entry.Message)

		cluster := result.ErrorClusters[key]
		cluster.Count++
		cluster.ExampleExecutionIDs = appendLimited(cluster.ExampleExecutionIDs, entry.ExecutionID, maxClusterExamples)

		if entry.NodeType != "" && !contains(cluster.NodeTypes, entry.NodeType) {
			cluster.NodeTypes = append(cluster.NodeTypes, entry.NodeType)
		}

		result.ErrorClusters[key] = cluster
	}

	result.TimeRange = errorTimeRange(result.Errors)

	return result
}

const maxClusterExamples = 5

func newErrorEntry(exec models.Execution, classifier severity.Classifier) ErrorEntry {
	entry := ErrorEntry{
		ExecutionID:    exec.ID,
		WorkflowName:   exec.WorkflowName,
		Mode:           exec.Mode,
		StartedAt:      exec.StartedAt,
		StoppedAt:      exec.StoppedAt,
		Finished:       exec.Finished,
		RetryOf:        exec.RetryOf,
		RetrySuccessID: exec.RetrySuccessID,
		Trigger:        exec.Trigger,
	}

	if ms, defined := exec.DurationMS(); defined {
		duration := ms
		entry.DurationMS = &duration
	}

	detail := exec.Error
	if detail == nil {
		detail = &models.ErrorDetail{
			NodeName: models.UnknownNodeName,
			Message:  "error details not available",
		}
	}

	entry.NodeName = detail.NodeName
	entry.NodeType = detail.NodeType
	entry.NodePosition = detail.NodePosition
	entry.Message = detail.Message

	// Name falls back to type when the platform did not attribute a node.
	if entry.NodeName == "" {
		entry.NodeName = detail.NodeType
	}

	if entry.NodeName == "" {
		entry.NodeName = models.UnknownNodeName
	}

	entry.Severity = detail.Severity
	if entry.Severity == "" {
		entry.Severity = classifier.Severity(detail.NodeType, detail.Message)
	}

	return entry
}

// rankNodeFailures counts failures per node, sorted by count descending with
// ties broken by first-seen order for determinism.
func rankNodeFailures(entries []ErrorEntry) []NodeFailureCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := make([]string, 0)

	for i, entry := range entries {
		if _, seen := counts[entry.NodeName]; !seen {
			firstSeen[entry.NodeName] = i

			order = append(order, entry.NodeName)
		}

		counts[entry.NodeName]++
	}

	ranked := make([]NodeFailureCount, 0, len(order))
	for _, node := range order {
		ranked = append(ranked, NodeFailureCount{Node: node, Count: counts[node]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}

		return firstSeen[ranked[i].Node] < firstSeen[ranked[j].Node]
	})

	return ranked
}

func errorTimeRange(entries []ErrorEntry) *TimeRange {
	var tr *TimeRange

	for _, entry := range entries {
		if entry.StartedAt == nil {
			continue
		}

		if tr == nil {
			tr = &TimeRange{Earliest: *entry.StartedAt, Latest: *entry.StartedAt}

			continue
		}

		if entry.StartedAt.Before(tr.Earliest) {
			tr.Earliest = *entry.StartedAt
		}

		if entry.StartedAt.After(tr.Latest) {
			tr.Latest = *entry.StartedAt
		}
	}

	return tr
}

func appendLimited(items []string, item string, limit int) []string {
	if len(items) >= limit {
		return items
	}

	return append(items, item)
}

func contains(items []string, item string) bool {
	for _, existing := range items {
		if existing == item {
			return true
		}
	}

	return false
}
