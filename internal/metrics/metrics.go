// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Relay metrics, labeled by endpoint ("email_check", "translate", ...).
	IncRelayCall(endpoint, status string)
	ObserveUpstreamDuration(endpoint string, duration time.Duration)

	// Auth gate failures by reason ("missing_header", "malformed_header", "invalid_token").
	IncAuthFailure(reason string)

	// Practice history writes.
	IncHistoryWrite(status string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
