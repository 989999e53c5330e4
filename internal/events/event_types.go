package events

import (
	"time"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportGenerated   EventType = "report_generated"
	EventForecastGenerated EventType = "forecast_generated"
	EventCacheCleared      EventType = "cache_cleared"
)

// Event represents an analytics lifecycle event emitted by the facade.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TenantID  string      `json:"tenant_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportGeneratedPayload payload.
type ReportGeneratedPayload struct {
	Range        domain.TimeRange `json:"range"`
	TotalTickets int              `json:"total_tickets"`
	FromCache    bool             `json:"from_cache"`
	DurationMS   int64            `json:"duration_ms"`
}

// ForecastGeneratedPayload payload.
type ForecastGeneratedPayload struct {
	Window          domain.TimeRange `json:"window"`
	Days            int              `json:"days"`
	ConfidenceLevel float64          `json:"confidence_level"`
}

// CacheClearedPayload payload.
type CacheClearedPayload struct {
	Reason string `json:"reason"`
}
