package services

import (
	"sync"
	"time"
)

// recordingMetrics is an inline MetricsRecorderInterface for service tests;
// the gomock version lives in service_mocks, which this package cannot
// import without a cycle.
type recordingMetrics struct {
	mu       sync.Mutex
	counters map[string]int
	timers   map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		counters: make(map[string]int),
		timers:   make(map[string]int),
	}
}

func (m *recordingMetrics) IncrementCounter(name string, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := name
	for _, v := range tags {
		key += ":" + v
	}
	m.counters[key]++
}

func (m *recordingMetrics) RecordProcessingTime(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[name]++
}

func (m *recordingMetrics) RecordGauge(name string, value float64, tags map[string]string) {}

func (m *recordingMetrics) counterValue(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}
