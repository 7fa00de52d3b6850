package models

// HealthStatus is the tri-level classification derived from a failure rate.
// Unknown is its own case: a window with no rateable executions must not
// signal false confidence as Healthy.
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusWarning  HealthStatus = "warning"
	HealthStatusCritical HealthStatus = "critical"
	HealthStatusUnknown  HealthStatus = "unknown"
)
