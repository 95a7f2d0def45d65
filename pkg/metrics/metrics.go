package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Flat-file store metrics
	CollectionReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_collection_reads_total",
			Help: "Total number of whole-file collection reads",
		},
		[]string{"collection"},
	)

	CollectionWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_collection_writes_total",
			Help: "Total number of whole-file collection writes",
		},
		[]string{"collection"},
	)

	CollectionWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_collection_write_failures_total",
			Help: "Total number of collection writes that failed and were swallowed",
		},
		[]string{"collection"},
	)

	CollectionCorruptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_collection_corruptions_total",
			Help: "Total number of reads that found a missing, empty or unparsable file",
		},
		[]string{"collection"},
	)

	CollectionRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_collection_records",
			Help: "Number of records seen in a collection at the last read",
		},
		[]string{"collection"},
	)

	// Domain metrics
	NotificationsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_emitted_total",
			Help: "Total number of notifications appended, by type",
		},
		[]string{"type"},
	)

	ChatMessagesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_posted_total",
			Help: "Total number of chat messages accepted, by surface",
		},
		[]string{"surface"},
	)
)
