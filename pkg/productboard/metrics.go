package productboard

import (
	"sync"
	"time"
)

// RequestMetrics accumulates dispatcher diagnostics: request totals, retry
// counts, and failures broken down by kind and status. All methods are safe
// for interleaved calls.
type RequestMetrics struct {
	mu               sync.Mutex
	totalRequests    int64
	totalAttempts    int64
	totalFailures    int64
	failuresByKind   map[ErrorKind]int64
	failuresByStatus map[int]int64
	totalLatency     time.Duration
	lastRequestTime  time.Time
}

// NewRequestMetrics creates an empty metrics accumulator.
func NewRequestMetrics() *RequestMetrics {
	return &RequestMetrics{
		failuresByKind:   make(map[ErrorKind]int64),
		failuresByStatus: make(map[int]int64),
	}
}

// RecordAttempt counts one attempt of one logical call.
func (m *RequestMetrics) RecordAttempt() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalAttempts++
}

// RecordSuccess counts one completed call.
func (m *RequestMetrics) RecordSuccess(latency time.Duration) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	m.totalLatency += latency
	m.lastRequestTime = time.Now()
}

// RecordFailure counts one failed call by its classified kind.
func (m *RequestMetrics) RecordFailure(kind ErrorKind, status int, latency time.Duration) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	m.totalFailures++
	m.failuresByKind[kind]++

	if status != 0 {
		m.failuresByStatus[status]++
	}

	m.totalLatency += latency
	m.lastRequestTime = time.Now()
}

// MetricsSnapshot is a point-in-time copy of the accumulated metrics.
type MetricsSnapshot struct {
	TotalRequests    int64               `json:"total_requests"      yaml:"total_requests"`
	TotalAttempts    int64               `json:"total_attempts"      yaml:"total_attempts"`
	TotalRetries     int64               `json:"total_retries"       yaml:"total_retries"`
	TotalFailures    int64               `json:"total_failures"      yaml:"total_failures"`
	FailuresByKind   map[ErrorKind]int64 `json:"failures_by_kind"    yaml:"failures_by_kind"`
	FailuresByStatus map[int]int64       `json:"failures_by_status"  yaml:"failures_by_status"`
	AverageLatency   time.Duration       `json:"average_latency"     yaml:"average_latency"`
	LastRequestTime  time.Time           `json:"last_request_time"   yaml:"last_request_time"`
}

// Snapshot returns a copy of the current totals.
func (m *RequestMetrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := MetricsSnapshot{
		TotalRequests:    m.totalRequests,
		TotalAttempts:    m.totalAttempts,
		TotalRetries:     m.totalAttempts - m.totalRequests,
		TotalFailures:    m.totalFailures,
		FailuresByKind:   make(map[ErrorKind]int64, len(m.failuresByKind)),
		FailuresByStatus: make(map[int]int64, len(m.failuresByStatus)),
		LastRequestTime:  m.lastRequestTime,
	}

	if snapshot.TotalRetries < 0 {
		snapshot.TotalRetries = 0
	}

	if m.totalRequests > 0 {
		snapshot.AverageLatency = m.totalLatency / time.Duration(m.totalRequests)
	}

	for kind, count := range m.failuresByKind {
		snapshot.FailuresByKind[kind] = count
	}

	for status, count := range m.failuresByStatus {
		snapshot.FailuresByStatus[status] = count
	}

	return snapshot
}
