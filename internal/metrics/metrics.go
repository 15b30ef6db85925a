// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Session rejection reasons.
const (
	ReasonMissing  = "missing"
	ReasonInvalid  = "invalid"
	ReasonRevoked  = "revoked"
	ReasonMismatch = "mismatch"
	ReasonError    = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	IncRateLimited(scope string) // scope: "api" or "page"

	// Session metrics
	IncSessionRejected(reason string)

	// Worksheet metrics
	ObserveWorksheetListSize(size int)
	IncWorksheetCreate(status string) // status: "success", "not_implemented", "failed"

	// Account metrics
	IncAccountDeleted()
	IncAccountDeleteFailed()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
