// Package events provides structured event emission for simulation
// diagnostics, consumed by external tooling as JSON-Lines.
package events

import "time"

// EventType identifies the kind of event.
type EventType string

const (
	// EventBridgeCounters reports the bridge's rolling request/broadcast/
	// dispatch/discard counters.
	EventBridgeCounters EventType = "bridge_counters"
	// EventOrchestratorProgress reports replay progress through the frame
	// sequence.
	EventOrchestratorProgress EventType = "orchestrator_progress"
	// EventFacilityProgress reports terminal-delivery progress.
	EventFacilityProgress EventType = "facility_progress"
	// EventRunComplete marks the end of a simulation run.
	EventRunComplete EventType = "run_complete"
	// EventError reports an error that ended a run.
	EventError EventType = "error"
)

// Envelope wraps every emitted event with type and timestamp.
type Envelope struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// BridgeCountersData is the payload for bridge_counters events.
type BridgeCountersData struct {
	Requests  uint64 `json:"requests"`
	Broadcast uint64 `json:"broadcast"`
	Dispatch  uint64 `json:"dispatch"`
	Discard   uint64 `json:"discard"`
	Pending   int    `json:"pending"`
}

// OrchestratorProgressData is the payload for orchestrator_progress events.
type OrchestratorProgressData struct {
	Sent  uint64 `json:"sent"`
	Total uint64 `json:"total"`
}

// FacilityProgressData is the payload for facility_progress events.
type FacilityProgressData struct {
	Delivered uint64 `json:"delivered"`
}

// RunCompleteData is the payload for run_complete events.
type RunCompleteData struct {
	DurationMs int64 `json:"duration_ms"`
}

// ErrorData is the payload for error events.
type ErrorData struct {
	Message string `json:"message"`
}

// Emitter is the interface for emitting structured events.
type Emitter interface {
	Emit(eventType EventType, data interface{})
	Close() error
}
