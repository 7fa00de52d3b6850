// Package analysis is the core engine that turns raw execution records into
// KPI summaries, health classifications, and error forensics. Every function
// here is a pure transform over its inputs: no network, no clock beyond the
// timestamps carried by the records, no state between calls.
package analysis

import "fmt"

// Diagnostics accompanies every analysis result so the host decides where
// observability goes; the engine never writes to process-wide log state.
type Diagnostics struct {
	MalformedWorkflows int      `json:"malformed_workflows,omitempty"`
	MalformedRecords   int      `json:"malformed_records,omitempty"`
	Notes              []string `json:"notes,omitempty"`
}

// Notef appends a formatted observation.
func (d *Diagnostics) Notef(format string, args ...any) {
	d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
}

// Merge folds other into d.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}

	d.MalformedWorkflows += other.MalformedWorkflows
	d.MalformedRecords += other.MalformedRecords
	d.Notes = append(d.Notes, other.Notes...)
}
