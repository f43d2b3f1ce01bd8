package observability

import "time"

// MetricsRegistry records codec and view history metrics. Components take it
// as a dependency instead of touching the Prometheus globals.
type MetricsRegistry interface {
	// Codec metrics
	IncrementEncodes(status string)
	IncrementDecodes(status string)
	IncrementDecisionSlots(kind string)
	RecordPayloadBytes(direction string, n int)

	// View history metrics
	IncrementViewRecords(status string)
	RecordStoreLatency(op string, duration time.Duration)
}

// PrometheusRegistry implements MetricsRegistry on the global Prometheus metrics.
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementEncodes(status string) {
	EncodeCount.WithLabelValues(status).Inc()
}

func (r *PrometheusRegistry) IncrementDecodes(status string) {
	DecodeCount.WithLabelValues(status).Inc()
}

func (r *PrometheusRegistry) IncrementDecisionSlots(kind string) {
	DecisionSlotCount.WithLabelValues(kind).Inc()
}

func (r *PrometheusRegistry) RecordPayloadBytes(direction string, n int) {
	PayloadBytes.WithLabelValues(direction).Observe(float64(n))
}

func (r *PrometheusRegistry) IncrementViewRecords(status string) {
	ViewRecordCount.WithLabelValues(status).Inc()
}

func (r *PrometheusRegistry) RecordStoreLatency(op string, duration time.Duration) {
	StoreLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// NoOpRegistry implements MetricsRegistry and discards everything.
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementEncodes(status string)                       {}
func (r *NoOpRegistry) IncrementDecodes(status string)                       {}
func (r *NoOpRegistry) IncrementDecisionSlots(kind string)                   {}
func (r *NoOpRegistry) RecordPayloadBytes(direction string, n int)           {}
func (r *NoOpRegistry) IncrementViewRecords(status string)                   {}
func (r *NoOpRegistry) RecordStoreLatency(op string, duration time.Duration) {}
