package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	HTTPRequests          uint64
	HTTPDurationTotalNs   int64
	RateLimited           map[string]uint64
	SessionsRejected      map[string]uint64
	WorksheetListRenders  uint64
	WorksheetListRowTotal uint64
	WorksheetCreates      map[string]uint64
	AccountsDeleted       uint64
	AccountDeleteFailures uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	httpRequests          uint64
	httpDurationTotalNs   int64
	worksheetListRenders  uint64
	worksheetListRowTotal uint64
	accountsDeleted       uint64
	accountDeleteFailures uint64

	mu               sync.Mutex
	rateLimited      map[string]uint64
	sessionsRejected map[string]uint64
	worksheetCreates map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		rateLimited:      make(map[string]uint64),
		sessionsRejected: make(map[string]uint64),
		worksheetCreates: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		HTTPRequests:          atomic.LoadUint64(&m.httpRequests),
		HTTPDurationTotalNs:   atomic.LoadInt64(&m.httpDurationTotalNs),
		RateLimited:           copyCounts(m.rateLimited),
		SessionsRejected:      copyCounts(m.sessionsRejected),
		WorksheetListRenders:  atomic.LoadUint64(&m.worksheetListRenders),
		WorksheetListRowTotal: atomic.LoadUint64(&m.worksheetListRowTotal),
		WorksheetCreates:      copyCounts(m.worksheetCreates),
		AccountsDeleted:       atomic.LoadUint64(&m.accountsDeleted),
		AccountDeleteFailures: atomic.LoadUint64(&m.accountDeleteFailures),
	}
}

// ObserveHTTPRequest records a handled request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	atomic.AddInt64(&m.httpDurationTotalNs, duration.Nanoseconds())
}

// IncRateLimited increments the rate-limited counter for scope.
func (m *InMemoryRecorder) IncRateLimited(scope string) {
	m.inc(m.rateLimited, scope)
}

// IncSessionRejected increments the rejected-session counter for reason.
func (m *InMemoryRecorder) IncSessionRejected(reason string) {
	m.inc(m.sessionsRejected, reason)
}

// ObserveWorksheetListSize records one list render of size rows.
func (m *InMemoryRecorder) ObserveWorksheetListSize(size int) {
	atomic.AddUint64(&m.worksheetListRenders, 1)
	atomic.AddUint64(&m.worksheetListRowTotal, uint64(size))
}

// IncWorksheetCreate increments the create counter for status.
func (m *InMemoryRecorder) IncWorksheetCreate(status string) {
	m.inc(m.worksheetCreates, status)
}

// IncAccountDeleted increments the deleted-account counter.
func (m *InMemoryRecorder) IncAccountDeleted() {
	atomic.AddUint64(&m.accountsDeleted, 1)
}

// IncAccountDeleteFailed increments the failed-delete counter.
func (m *InMemoryRecorder) IncAccountDeleteFailed() {
	atomic.AddUint64(&m.accountDeleteFailures, 1)
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, label string) {
	m.mu.Lock()
	counts[label]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
