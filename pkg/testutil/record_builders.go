// Package testutil provides builders for gateway-shaped records used in tests.
package testutil

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionRecord creates a raw execution record shaped like the gateway
// returns them, with default values that can be overridden.
func ExecutionRecord(overrides ...func(map[string]any)) map[string]any {
	record := map[string]any{
		"id":         uuid.New().String(),
		"workflowId": "wf-test",
		"status":     "success",
		"mode":       "webhook",
	}

	for _, override := range overrides {
		override(record)
	}

	return record
}

// WithID sets the execution id.
func WithID(id string) func(map[string]any) {
	return func(r map[string]any) {
		r["id"] = id
	}
}

// WithWorkflowID sets the owning workflow id.
func WithWorkflowID(id string) func(map[string]any) {
	return func(r map[string]any) {
		r["workflowId"] = id
	}
}

// WithStatus sets the execution status.
func WithStatus(status string) func(map[string]any) {
	return func(r map[string]any) {
		r["status"] = status
	}
}

// WithMode sets the execution mode.
func WithMode(mode string) func(map[string]any) {
	return func(r map[string]any) {
		r["mode"] = mode
	}
}

// WithWindow sets both execution timestamps.
func WithWindow(startedAt, stoppedAt time.Time) func(map[string]any) {
	return func(r map[string]any) {
		r["startedAt"] = startedAt.Format(time.RFC3339)
		r["stoppedAt"] = stoppedAt.Format(time.RFC3339)
	}
}

// WithError attaches an error detail block.
func WithError(node, message string) func(map[string]any) {
	return func(r map[string]any) {
		r["error"] = map[string]any{
			"node":    node,
			"message": message,
		}
	}
}

// WithField sets an arbitrary raw field.
func WithField(key string, value any) func(map[string]any) {
	return func(r map[string]any) {
		r[key] = value
	}
}

// WorkflowRecord creates a raw workflow record shaped like the gateway
// returns them.
func WorkflowRecord(id, name string, active bool) map[string]any {
	return map[string]any{
		"id":     id,
		"name":   name,
		"active": active,
	}
}
