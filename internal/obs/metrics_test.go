package obs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObservePath(time.Millisecond)
	m.IncDroppedPayoff()
	m.ObservePersist(3, time.Millisecond)
	m.AddRecordsReceived(3)
	m.IncRejectedReport()
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestMetricsConcurrentCounters(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				m.ObservePath(time.Duration(w*100+i+1) * time.Microsecond)
				if i%10 == 0 {
					m.IncDroppedPayoff()
				}
			}
		}()
	}
	wg.Wait()
	m.ObservePersist(5, 2*time.Millisecond)
	m.ObservePersist(0, time.Hour)

	snap := m.Snapshot()
	assert.Equal(t, uint64(800), snap.Paths)
	assert.Equal(t, uint64(80), snap.DroppedPayoffs)
	assert.Equal(t, uint64(5), snap.RecordsPersisted)
	assert.Equal(t, uint64(800), snap.PathLatency.Count)
	assert.Equal(t, time.Microsecond, snap.PathLatency.Min)
	assert.Equal(t, 800*time.Microsecond, snap.PathLatency.Max)
	assert.Equal(t, uint64(1), snap.SinkLatency.Count)
}
