package models

import (
	"strings"
	"time"
)

// ExecutionStatus represents the terminal or in-progress state of an execution.
type ExecutionStatus string

const (
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusError   ExecutionStatus = "error"
	ExecutionStatusRunning ExecutionStatus = "running"
	ExecutionStatusWaiting ExecutionStatus = "waiting"
	ExecutionStatusUnknown ExecutionStatus = "unknown" // missing or unrecognized status
)

// ParseExecutionStatus maps a raw status string to a known status.
// Unrecognized or empty values map to ExecutionStatusUnknown, never dropped.
func ParseExecutionStatus(raw string) ExecutionStatus {
	switch ExecutionStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ExecutionStatusSuccess:
		return ExecutionStatusSuccess
	case ExecutionStatusError:
		return ExecutionStatusError
	case ExecutionStatusRunning:
		return ExecutionStatusRunning
	case ExecutionStatusWaiting:
		return ExecutionStatusWaiting
	default:
		return ExecutionStatusUnknown
	}
}

// ExecutionMode describes how an execution was started.
type ExecutionMode string

const (
	ExecutionModeManual  ExecutionMode = "manual"
	ExecutionModeTrigger ExecutionMode = "trigger"
	ExecutionModeWebhook ExecutionMode = "webhook"
	ExecutionModeRetry   ExecutionMode = "retry"
	ExecutionModeUnknown ExecutionMode = "unknown"
)

// ParseExecutionMode normalizes a raw mode string. Platform-specific modes
// outside the known set are preserved as observed so mode distributions do
// not collapse them; only missing values become ExecutionModeUnknown.
func ParseExecutionMode(raw string) ExecutionMode {
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == "" {
		return ExecutionModeUnknown
	}

	return ExecutionMode(mode)
}

// Severity grades an execution error.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ErrorDetail attributes a failed execution to the node that raised it.
// Executions with status "error" always carry one; records arriving without
// it are given a synthetic detail during normalization so failure counts
// stay consistent.
type ErrorDetail struct {
	NodeName     string   `json:"node_name"`
	NodeType     string   `json:"node_type,omitempty"`
	NodePosition []int    `json:"node_position,omitempty"`
	Message      string   `json:"message"`
	Severity     Severity `json:"severity,omitempty"`
}

// UnknownNodeName is the synthetic node attribution used when an error
// execution arrives without failure details.
const UnknownNodeName = "unknown"

// Execution is one run instance of a workflow.
type Execution struct {
	ID             string          `json:"id"`
	WorkflowID     string          `json:"workflow_id"`
	WorkflowName   string          `json:"workflow_name,omitempty"`
	Status         ExecutionStatus `json:"status"`
	Mode           ExecutionMode   `json:"mode"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	StoppedAt      *time.Time      `json:"stopped_at,omitempty"`
	Finished       bool            `json:"finished"`
	RetryOf        string          `json:"retry_of,omitempty"`
	RetrySuccessID string          `json:"retry_success_id,omitempty"`
	Error          *ErrorDetail    `json:"error,omitempty"`
	Trigger        map[string]any  `json:"trigger,omitempty"`
}

// DurationMS returns the execution duration in milliseconds. The duration is
// defined only when both timestamps are present and the stop does not precede
// the start; anything else is an unknown duration, not zero.
func (e *Execution) DurationMS() (int64, bool) {
	if e.StartedAt == nil || e.StoppedAt == nil {
		return 0, false
	}

	d := e.StoppedAt.Sub(*e.StartedAt)
	if d < 0 {
		return 0, false
	}

	return d.Milliseconds(), true
}
