package monitor

import (
	"errors"

	"github.com/flowpulse/flowpulse/pkg/gateway"
)

// ErrWorkflowIDRequired indicates the error-forensics operation was invoked
// without a workflow identifier.
var ErrWorkflowIDRequired = errors.New("workflow_id parameter is required")

// IsInvalidParameter reports whether err is a caller-side parameter error.
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrWorkflowIDRequired)
}

// IsUpstreamFailure reports whether err originated at the gateway boundary.
func IsUpstreamFailure(err error) bool {
	return gateway.IsFetchFailure(err)
}
