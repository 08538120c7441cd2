package obs

import (
	"sync/atomic"
	"time"
)

// Metrics collects lightweight counters of a pricing run. A nil *Metrics is a no-op.
type Metrics struct {
	paths            uint64
	droppedPayoffs   uint64
	recordsPersisted uint64
	recordsReceived  uint64
	rejectedReports  uint64

	pathLatency LatencyStats
	sinkLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Paths            uint64
	DroppedPayoffs   uint64
	RecordsPersisted uint64
	RecordsReceived  uint64
	RejectedReports  uint64
	PathLatency      LatencySnapshot
	SinkLatency      LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObservePath counts one simulated path and its wall time.
func (m *Metrics) ObservePath(d time.Duration) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.paths, 1)
	m.pathLatency.Observe(d)
}

// IncDroppedPayoff records a non-finite payoff left out of the aggregate.
func (m *Metrics) IncDroppedPayoff() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.droppedPayoffs, 1)
}

// ObservePersist counts records handed to a sink and the time the sink took.
func (m *Metrics) ObservePersist(records int, d time.Duration) {
	if m == nil || records <= 0 {
		return
	}
	atomic.AddUint64(&m.recordsPersisted, uint64(records))
	m.sinkLatency.Observe(d)
}

// AddRecordsReceived counts records relayed from other processes.
func (m *Metrics) AddRecordsReceived(records int) {
	if m == nil || records <= 0 {
		return
	}
	atomic.AddUint64(&m.recordsReceived, uint64(records))
}

// IncRejectedReport counts a report the collector refused.
func (m *Metrics) IncRejectedReport() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.rejectedReports, 1)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Paths:            atomic.LoadUint64(&m.paths),
		DroppedPayoffs:   atomic.LoadUint64(&m.droppedPayoffs),
		RecordsPersisted: atomic.LoadUint64(&m.recordsPersisted),
		RecordsReceived:  atomic.LoadUint64(&m.recordsReceived),
		RejectedReports:  atomic.LoadUint64(&m.rejectedReports),
		PathLatency:      m.pathLatency.Snapshot(),
		SinkLatency:      m.sinkLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
