package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks event loop timings.
type Metrics struct {
	// Frames are Draw+Show cycles.
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Messages are bus messages handled by the loop.
	messageCount   atomic.Uint64
	messageTotalNs atomic.Int64
	ignored        atomic.Uint64
	decodeErrors   atomic.Uint64
	replyErrors    atomic.Uint64

	resizes atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records the time spent drawing and showing one frame.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordMessage records a handled request message.
func (m *Metrics) RecordMessage(duration time.Duration) {
	m.messageCount.Add(1)
	m.messageTotalNs.Add(duration.Nanoseconds())
}

// RecordIgnored records a message with a tag the loop does not handle.
func (m *Metrics) RecordIgnored() {
	m.ignored.Add(1)
}

// RecordDecodeError records a request that could not be decoded.
func (m *Metrics) RecordDecodeError() {
	m.decodeErrors.Add(1)
}

// RecordReplyError records a response that could not be delivered.
func (m *Metrics) RecordReplyError() {
	m.replyErrors.Add(1)
}

// RecordResize records a terminal resize.
func (m *Metrics) RecordResize() {
	m.resizes.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()
	messageCount := m.messageCount.Load()

	var avgFrameNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}

	var avgMessageNs int64
	if messageCount > 0 {
		avgMessageNs = m.messageTotalNs.Load() / int64(messageCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     frameCount,
		AvgFrameTimeNs: avgFrameNs,
		MinFrameTimeNs: minFrameNs,
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		MessageCount:   messageCount,
		AvgMessageNs:   avgMessageNs,
		Ignored:        m.ignored.Load(),
		DecodeErrors:   m.decodeErrors.Load(),
		ReplyErrors:    m.replyErrors.Load(),
		Resizes:        m.resizes.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MinFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	MessageCount   uint64
	AvgMessageNs   int64
	Ignored        uint64
	DecodeErrors   uint64
	ReplyErrors    uint64
	Resizes        uint64
}

// AvgMessageTime returns the mean time spent on one request message.
func (s MetricsSnapshot) AvgMessageTime() time.Duration {
	return time.Duration(s.AvgMessageNs)
}

// Metrics returns the application's metrics instance.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
