package metrics

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// RelayKey identifies a relay counter.
type RelayKey struct {
	Endpoint string
	Status   string
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RelayCalls              map[RelayKey]uint64
	UpstreamDurationCount   map[string]uint64
	UpstreamDurationTotalNs map[string]int64
	AuthFailures            map[string]uint64
	HistoryWrites           uint64
	HistoryWriteFailures    uint64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint.
type InMemoryRecorder struct {
	mu                      sync.Mutex
	relayCalls              map[RelayKey]uint64
	upstreamDurationCount   map[string]uint64
	upstreamDurationTotalNs map[string]int64
	authFailures            map[string]uint64

	historyWrites        uint64
	historyWriteFailures uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		relayCalls:              make(map[RelayKey]uint64),
		upstreamDurationCount:   make(map[string]uint64),
		upstreamDurationTotalNs: make(map[string]int64),
		authFailures:            make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		RelayCalls:              maps.Clone(m.relayCalls),
		UpstreamDurationCount:   maps.Clone(m.upstreamDurationCount),
		UpstreamDurationTotalNs: maps.Clone(m.upstreamDurationTotalNs),
		AuthFailures:            maps.Clone(m.authFailures),
		HistoryWrites:           atomic.LoadUint64(&m.historyWrites),
		HistoryWriteFailures:    atomic.LoadUint64(&m.historyWriteFailures),
	}
}

// IncRelayCall increments the relay call counter for endpoint and status.
func (m *InMemoryRecorder) IncRelayCall(endpoint, status string) {
	m.mu.Lock()
	m.relayCalls[RelayKey{Endpoint: endpoint, Status: status}]++
	m.mu.Unlock()
}

// ObserveUpstreamDuration records time spent in the external API call.
func (m *InMemoryRecorder) ObserveUpstreamDuration(endpoint string, duration time.Duration) {
	m.mu.Lock()
	m.upstreamDurationCount[endpoint]++
	m.upstreamDurationTotalNs[endpoint] += duration.Nanoseconds()
	m.mu.Unlock()
}

// IncAuthFailure increments the auth failure counter for reason.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	m.mu.Lock()
	m.authFailures[reason]++
	m.mu.Unlock()
}

// IncHistoryWrite increments the history write counters.
func (m *InMemoryRecorder) IncHistoryWrite(status string) {
	if status == StatusSuccess {
		atomic.AddUint64(&m.historyWrites, 1)
		return
	}
	atomic.AddUint64(&m.historyWriteFailures, 1)
}
