package tracker

import "time"

type IngestOutcome string

const (
	IngestOutcomeAccepted IngestOutcome = "accepted"
	IngestOutcomeIgnored  IngestOutcome = "ignored"
	IngestOutcomeFailed   IngestOutcome = "failed"
)

// IngestEvent is an analytics record of a single ingestion attempt
type IngestEvent struct {
	Timestamp time.Time

	VehicleID string
	Outcome   IngestOutcome

	RouteCode string    `json:",omitempty"`
	SpeedKph  float64   `json:",omitempty"`
	Location  []float64 `json:",omitempty"`

	Error string `json:",omitempty"`
}

type EventRecorder interface {
	RecordIngest(event IngestEvent)
}

type NoopEventRecorder struct{}

func (NoopEventRecorder) RecordIngest(IngestEvent) {}
