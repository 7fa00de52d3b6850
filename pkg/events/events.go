// Package events defines the notification events the monitor publishes after
// assembling reports.
package events

import (
	"time"

	"github.com/flowpulse/flowpulse/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries all monitor notification events.
const Topic = "flowpulse.reports"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ReportGeneratedEvent  EventType = "report.generated"
	WorkflowCriticalEvent EventType = "workflow.critical"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// ReportGenerated is emitted after every successfully assembled report.
type ReportGenerated struct {
	BaseEvent

	Operation string              `json:"operation"`
	Total     int                 `json:"total"`
	Failed    int                 `json:"failed"`
	Status    models.HealthStatus `json:"status,omitempty"`
}

func (r ReportGenerated) GetType() EventType {
	return ReportGeneratedEvent
}

// WorkflowCritical is emitted for each workflow a health report classifies
// as critical.
type WorkflowCritical struct {
	BaseEvent

	WorkflowID   string  `json:"workflow_id"`
	WorkflowName string  `json:"workflow_name"`
	FailureRate  float64 `json:"failure_rate"`
}

func (w WorkflowCritical) GetType() EventType {
	return WorkflowCriticalEvent
}
