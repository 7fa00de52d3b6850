package models_test

import (
	"testing"
	"time"

	"github.com/flowpulse/flowpulse/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestParseExecutionStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected models.ExecutionStatus
	}{
		{name: "success", raw: "success", expected: models.ExecutionStatusSuccess},
		{name: "error", raw: "error", expected: models.ExecutionStatusError},
		{name: "running", raw: "running", expected: models.ExecutionStatusRunning},
		{name: "waiting", raw: "waiting", expected: models.ExecutionStatusWaiting},
		{name: "mixed case", raw: "Success", expected: models.ExecutionStatusSuccess},
		{name: "padded", raw: "  error ", expected: models.ExecutionStatusError},
		{name: "empty", raw: "", expected: models.ExecutionStatusUnknown},
		{name: "unrecognized", raw: "crashed", expected: models.ExecutionStatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, models.ParseExecutionStatus(tt.raw))
		})
	}
}

func TestParseExecutionMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.ExecutionModeWebhook, models.ParseExecutionMode("webhook"))
	assert.Equal(t, models.ExecutionModeUnknown, models.ParseExecutionMode(""))
	assert.Equal(t, models.ExecutionModeUnknown, models.ParseExecutionMode("   "))

	// Platform-specific modes are preserved as observed, not collapsed.
	assert.Equal(t, models.ExecutionMode("integrated"), models.ParseExecutionMode("Integrated"))
}

func TestExecutionDurationMS(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stopped := started.Add(250 * time.Millisecond)
	before := started.Add(-time.Second)

	tests := []struct {
		name       string
		exec       models.Execution
		expectedMS int64
		defined    bool
	}{
		{
			name:       "both timestamps present",
			exec:       models.Execution{StartedAt: &started, StoppedAt: &stopped},
			expectedMS: 250,
			defined:    true,
		},
		{
			name:    "still running",
			exec:    models.Execution{StartedAt: &started},
			defined: false,
		},
		{
			name:    "missing start",
			exec:    models.Execution{StoppedAt: &stopped},
			defined: false,
		},
		{
			name:    "negative span is unknown not zero",
			exec:    models.Execution{StartedAt: &started, StoppedAt: &before},
			defined: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms, ok := tt.exec.DurationMS()
			assert.Equal(t, tt.defined, ok)

			if tt.defined {
				assert.Equal(t, tt.expectedMS, ms)
			}
		})
	}
}
