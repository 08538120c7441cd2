package engine

import (
	"sync"
	"sync/atomic"

	"mcpricer/internal/model/enum"
)

// dispatcher hands out half-open index ranges [lo, hi) to workers.
type dispatcher interface {
	next(worker int) (lo, hi int, ok bool)
}

func newDispatcher(schedule enum.Schedule, total, workers, chunk int) dispatcher {
	switch schedule {
	case enum.ScheduleDynamic:
		if chunk <= 0 {
			chunk = 1
		}
		return &dynamicDispatcher{total: int64(total), chunk: int64(chunk)}
	case enum.ScheduleGuided:
		if chunk <= 0 {
			chunk = 1
		}
		return &guidedDispatcher{total: total, workers: workers, minChunk: chunk}
	default:
		if chunk <= 0 {
			chunk = (total + workers - 1) / workers
		}
		return &staticDispatcher{total: total, workers: workers, chunk: chunk, rounds: make([]int, workers)}
	}
}

// staticDispatcher deals chunks round-robin: worker w owns chunks w, w+workers, ...
// Each worker only touches its own rounds slot.
type staticDispatcher struct {
	total   int
	workers int
	chunk   int
	rounds  []int
}

func (d *staticDispatcher) next(worker int) (int, int, bool) {
	k := d.rounds[worker]*d.workers + worker
	lo := k * d.chunk
	if lo >= d.total {
		return 0, 0, false
	}
	d.rounds[worker]++
	return lo, min(lo+d.chunk, d.total), true
}

// dynamicDispatcher hands the next fixed-size chunk to whoever asks first.
type dynamicDispatcher struct {
	total  int64
	chunk  int64
	cursor atomic.Int64
}

func (d *dynamicDispatcher) next(int) (int, int, bool) {
	hi := d.cursor.Add(d.chunk)
	lo := hi - d.chunk
	if lo >= d.total {
		return 0, 0, false
	}
	return int(lo), int(min(hi, d.total)), true
}

// guidedDispatcher shrinks chunks as the remaining work shrinks, never below minChunk.
type guidedDispatcher struct {
	mu       sync.Mutex
	total    int
	workers  int
	minChunk int
	cursor   int
}

func (d *guidedDispatcher) next(int) (int, int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	remaining := d.total - d.cursor
	if remaining <= 0 {
		return 0, 0, false
	}
	size := max(remaining/(2*d.workers), d.minChunk)
	lo := d.cursor
	d.cursor = min(lo+size, d.total)
	return lo, d.cursor, true
}
