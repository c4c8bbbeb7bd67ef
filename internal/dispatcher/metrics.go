package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/scrollpane/internal/protocol"
)

// Metrics collects processing statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-kind metrics
	kindMetrics map[protocol.RequestKind]*KindMetrics

	// Global counters
	totalRequests  uint64
	totalNotFound  uint64
	totalErrors    uint64
	totalRounds    uint64
	mutatingRounds uint64

	// Timing
	totalDuration time.Duration
}

// KindMetrics holds metrics for a specific request kind.
type KindMetrics struct {
	Kind          protocol.RequestKind
	Count         uint64
	NotFoundCount uint64
	LastOutcome   protocol.ResponseKind
	LastProcessed time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		kindMetrics: make(map[protocol.RequestKind]*KindMetrics),
	}
}

// RecordRequest records a processed request and its outcome.
func (m *Metrics) RecordRequest(kind protocol.RequestKind, outcome protocol.ResponseKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	switch outcome {
	case protocol.ResponseNotFound:
		m.totalNotFound++
	case protocol.ResponseError:
		m.totalErrors++
	}

	km := m.kindMetrics[kind]
	if km == nil {
		km = &KindMetrics{Kind: kind}
		m.kindMetrics[kind] = km
	}

	km.Count++
	km.LastOutcome = outcome
	km.LastProcessed = time.Now()

	if outcome == protocol.ResponseNotFound {
		km.NotFoundCount++
	}
}

// RecordRound records a completed processing round.
func (m *Metrics) RecordRound(duration time.Duration, mutated bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRounds++
	m.totalDuration += duration
	if mutated {
		m.mutatingRounds++
	}
}

// TotalRequests returns the number of processed requests, nested included.
func (m *Metrics) TotalRequests() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalRequests
}

// TotalNotFound returns the number of not found outcomes.
func (m *Metrics) TotalNotFound() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalNotFound
}

// TotalErrors returns the number of error outcomes.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TotalRounds returns the number of processing rounds.
func (m *Metrics) TotalRounds() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalRounds
}

// MutatingRounds returns the number of rounds that changed the store.
func (m *Metrics) MutatingRounds() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mutatingRounds
}

// AverageDuration returns the average round duration.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.totalRounds == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalRounds)
}

// KindStats returns metrics for a specific request kind.
func (m *Metrics) KindStats(kind protocol.RequestKind) *KindMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	km := m.kindMetrics[kind]
	if km == nil {
		return nil
	}

	// Return a copy
	copy := *km
	return &copy
}

// TopKinds returns the n most processed request kinds.
func (m *Metrics) TopKinds(n int) []*KindMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kinds := make([]*KindMetrics, 0, len(m.kindMetrics))
	for _, km := range m.kindMetrics {
		copy := *km
		kinds = append(kinds, &copy)
	}

	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].Count != kinds[j].Count {
			return kinds[i].Count > kinds[j].Count
		}
		return kinds[i].Kind < kinds[j].Kind
	})

	if n > len(kinds) {
		n = len(kinds)
	}
	return kinds[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.kindMetrics = make(map[protocol.RequestKind]*KindMetrics)
	m.totalRequests = 0
	m.totalNotFound = 0
	m.totalErrors = 0
	m.totalRounds = 0
	m.mutatingRounds = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	TotalRequests   uint64
	TotalNotFound   uint64
	TotalErrors     uint64
	TotalRounds     uint64
	MutatingRounds  uint64
	AverageDuration time.Duration
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var avg time.Duration
	if m.totalRounds > 0 {
		avg = m.totalDuration / time.Duration(m.totalRounds)
	}

	return MetricsSnapshot{
		TotalRequests:   m.totalRequests,
		TotalNotFound:   m.totalNotFound,
		TotalErrors:     m.totalErrors,
		TotalRounds:     m.totalRounds,
		MutatingRounds:  m.mutatingRounds,
		AverageDuration: avg,
		Timestamp:       time.Now(),
	}
}
