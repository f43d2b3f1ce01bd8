package observability

import (
	"sync"
	"time"
)

// MockMetricsRegistry records calls for assertions in tests.
type MockMetricsRegistry struct {
	mu            sync.Mutex
	Encodes       map[string]int
	Decodes       map[string]int
	DecisionSlots map[string]int
	PayloadBytes  map[string][]int
	ViewRecords   map[string]int
	StoreOps      map[string]int
}

// NewMockMetricsRegistry creates an empty recorder.
func NewMockMetricsRegistry() *MockMetricsRegistry {
	return &MockMetricsRegistry{
		Encodes:       make(map[string]int),
		Decodes:       make(map[string]int),
		DecisionSlots: make(map[string]int),
		PayloadBytes:  make(map[string][]int),
		ViewRecords:   make(map[string]int),
		StoreOps:      make(map[string]int),
	}
}

func (m *MockMetricsRegistry) IncrementEncodes(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Encodes[status]++
}

func (m *MockMetricsRegistry) IncrementDecodes(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Decodes[status]++
}

func (m *MockMetricsRegistry) IncrementDecisionSlots(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DecisionSlots[kind]++
}

func (m *MockMetricsRegistry) RecordPayloadBytes(direction string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PayloadBytes[direction] = append(m.PayloadBytes[direction], n)
}

func (m *MockMetricsRegistry) IncrementViewRecords(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ViewRecords[status]++
}

func (m *MockMetricsRegistry) RecordStoreLatency(op string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreOps[op]++
}
