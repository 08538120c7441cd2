package sink

import (
	"slices"
	"sync"

	"mcpricer/internal/model"
)

// Memory keeps every record in arrival order.
type Memory struct {
	mu      sync.Mutex
	records []model.PathRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Write(records ...model.PathRecord) error {
	m.mu.Lock()
	m.records = append(m.records, records...)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Records returns a copy of everything written so far.
func (m *Memory) Records() []model.PathRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records)
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
