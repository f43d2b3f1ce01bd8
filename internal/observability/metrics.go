package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// encoded requests by outcome
	EncodeCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adzerk_codec_encodes_total",
			Help: "Total decision requests encoded",
		},
		[]string{"status"},
	)

	// decoded responses by outcome
	DecodeCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adzerk_codec_decodes_total",
			Help: "Total decision responses decoded",
		},
		[]string{"status"},
	)

	// decoded placements by slot kind
	DecisionSlotCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adzerk_codec_decision_slots_total",
			Help: "Total placement slots decoded, by kind",
		},
		[]string{"kind"},
	)

	// payload size in bytes per direction (request/response)
	PayloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adzerk_codec_payload_bytes",
			Help:    "Size of encoded requests and decoded responses",
			Buckets: prometheus.ExponentialBuckets(128, 2, 12),
		},
		[]string{"direction"},
	)

	// flight view writes to the history store
	ViewRecordCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adzerk_view_history_records_total",
			Help: "Total flight views written to the view history store",
		},
		[]string{"status"},
	)

	// latency of view history store operations
	StoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adzerk_view_history_duration_seconds",
			Help:    "Duration of view history store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		EncodeCount,
		DecodeCount,
		DecisionSlotCount,
		PayloadBytes,
		ViewRecordCount,
		StoreLatency,
	)
}
