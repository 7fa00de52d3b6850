// Package models defines the core domain model for workflow execution monitoring.
package models

import "time"

// Workflow is an immutable snapshot of an automation definition as reported
// by the platform gateway. The monitor never mutates or persists it.
type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
