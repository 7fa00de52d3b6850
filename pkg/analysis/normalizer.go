package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flowpulse/flowpulse/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// Minimal shape a record must satisfy to be usable at all. Everything beyond
// the identifier is coerced leniently; records failing even this are counted
// as malformed and skipped.
var recordSchema = map[string]any{
	"type":     "object",
	"required": []string{"id"},
	"properties": map[string]any{
		"id": map[string]any{"type": []string{"string", "number"}},
	},
}

// NormalizeWorkflows validates and coerces raw workflow records from the
// gateway into domain values. Malformed records are counted, never aborted on.
func NormalizeWorkflows(records []map[string]any) ([]models.Workflow, *Diagnostics) {
	diags := &Diagnostics{}
	workflows := make([]models.Workflow, 0, len(records))

	for _, record := range records {
		if err := validateRecord(record); err != nil {
			diags.MalformedWorkflows++
			diags.Notef("skipped workflow record: %v", err)

			continue
		}

		wf := models.Workflow{
			ID:       stringField(record, "id"),
			Name:     stringField(record, "name"),
			Active:   boolField(record, "active"),
			Archived: boolField(record, "isArchived"),
		}

		if wf.Name == "" {
			wf.Name = "Unnamed"
		}

		if t, ok := timeField(record, "createdAt"); ok {
			wf.CreatedAt = t
		}

		if t, ok := timeField(record, "updatedAt"); ok {
			wf.UpdatedAt = t
		}

		workflows = append(workflows, wf)
	}

	return workflows, diags
}

// NormalizeExecutions validates and coerces raw execution records, ordering
// the result most-recent-first by start time. Executions reporting an error
// status without failure details receive a synthetic unknown-node detail so
// failure counts stay consistent with status counts.
func NormalizeExecutions(records []map[string]any) ([]models.Execution, *Diagnostics) {
	diags := &Diagnostics{}
	executions := make([]models.Execution, 0, len(records))

	for _, record := range records {
		if err := validateRecord(record); err != nil {
			diags.MalformedRecords++
			diags.Notef("skipped execution record: %v", err)

			continue
		}

		exec := models.Execution{
			ID:             stringField(record, "id"),
			WorkflowID:     stringField(record, "workflowId"),
			Status:         models.ParseExecutionStatus(stringField(record, "status")),
			Mode:           models.ParseExecutionMode(stringField(record, "mode")),
			Finished:       boolField(record, "finished"),
			RetryOf:        stringField(record, "retryOf"),
			RetrySuccessID: stringField(record, "retrySuccessId"),
		}

		if workflowData, ok := record["workflowData"].(map[string]any); ok {
			exec.WorkflowName = stringField(workflowData, "name")
		}

		if t, ok := timeField(record, "startedAt"); ok {
			started := t
			exec.StartedAt = &started
		}

		if t, ok := timeField(record, "stoppedAt"); ok {
			stopped := t
			exec.StoppedAt = &stopped
		}

		exec.Error = normalizeErrorDetail(record)
		if exec.Status == models.ExecutionStatusError && exec.Error == nil {
			diags.MalformedRecords++
			diags.Notef("execution %s has error status without error details", exec.ID)
			exec.Error = &models.ErrorDetail{
				NodeName: models.UnknownNodeName,
				Message:  "error details not available",
			}
		}

		if trigger, ok := record["triggerContext"].(map[string]any); ok {
			exec.Trigger = trigger
		}

		executions = append(executions, exec)
	}

	sortMostRecentFirst(executions)

	return executions, diags
}

func normalizeErrorDetail(record map[string]any) *models.ErrorDetail {
	raw, ok := record["error"].(map[string]any)
	if !ok {
		return nil
	}

	detail := &models.ErrorDetail{
		NodeType: stringField(raw, "nodeType"),
		Message:  stringField(raw, "message"),
	}

	// The node field arrives either as a bare name or as a node object.
	switch node := raw["node"].(type) {
	case string:
		detail.NodeName = node
	case map[string]any:
		detail.NodeName = stringField(node, "name")

		if detail.NodeType == "" {
			detail.NodeType = stringField(node, "type")
		}

		detail.NodePosition = intSliceField(node, "position")
	}

	if detail.NodePosition == nil {
		detail.NodePosition = intSliceField(raw, "position")
	}

	if detail.Message == "" {
		detail.Message = "error details not available"
	}

	if detail.NodeName == "" && detail.NodeType == "" {
		detail.NodeName = models.UnknownNodeName
	}

	switch models.Severity(strings.ToLower(stringField(raw, "level"))) {
	case models.SeverityInfo:
		detail.Severity = models.SeverityInfo
	case models.SeverityWarning:
		detail.Severity = models.SeverityWarning
	case models.SeverityError:
		detail.Severity = models.SeverityError
	case models.SeverityCritical:
		detail.Severity = models.SeverityCritical
	}

	return detail
}

func validateRecord(record map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(recordSchema),
		gojsonschema.NewGoLoader(record),
	)
	if err != nil {
		return err
	}

	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}

		return fmt.Errorf("invalid record: %s", strings.Join(descriptions, "; "))
	}

	return nil
}

func sortMostRecentFirst(executions []models.Execution) {
	sort.SliceStable(executions, func(i, j int) bool {
		left, right := executions[i].StartedAt, executions[j].StartedAt

		// Executions without a start time sort last.
		if left == nil {
			return false
		}

		if right == nil {
			return true
		}

		return left.After(*right)
	})
}

func stringField(record map[string]any, key string) string {
	switch v := record[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}

		return fmt.Sprintf("%v", v)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

func boolField(record map[string]any, key string) bool {
	switch v := record[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// timeField parses a timestamp field. Unparseable timestamps are treated as
// absent, not as an error.
func timeField(record map[string]any, key string) (time.Time, bool) {
	raw, ok := record[key].(string)
	if !ok || raw == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func intSliceField(record map[string]any, key string) []int {
	raw, ok := record[key].([]any)
	if !ok {
		return nil
	}

	out := make([]int, 0, len(raw))

	for _, item := range raw {
		if n, ok := item.(float64); ok {
			out = append(out, int(n))
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
