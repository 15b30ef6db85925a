package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited(scope string) {}

// IncSessionRejected is a no-op.
func (n *NoopRecorder) IncSessionRejected(reason string) {}

// ObserveWorksheetListSize is a no-op.
func (n *NoopRecorder) ObserveWorksheetListSize(size int) {}

// IncWorksheetCreate is a no-op.
func (n *NoopRecorder) IncWorksheetCreate(status string) {}

// IncAccountDeleted is a no-op.
func (n *NoopRecorder) IncAccountDeleted() {}

// IncAccountDeleteFailed is a no-op.
func (n *NoopRecorder) IncAccountDeleteFailed() {}
