// Package metrics defines the Prometheus instruments for the worker pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsConsumed counts envelopes popped off the queues, by worker type.
	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsegraph_worker_events_consumed_total",
		Help: "Events consumed from Redis queues.",
	}, []string{"worker"})

	// EventsProcessed counts terminal results, by worker type and status.
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsegraph_worker_events_processed_total",
		Help: "Events processed to a terminal result.",
	}, []string{"worker", "status"})

	// MalformedPayloads counts queue entries that failed to decode and were
	// dropped.
	MalformedPayloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsegraph_worker_malformed_payloads_total",
		Help: "Queue payloads dropped because they could not be decoded.",
	}, []string{"worker"})

	// ProcessingDuration observes end-to-end processing time per event.
	ProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pulsegraph_worker_processing_duration_seconds",
		Help:    "Time spent processing a single event.",
		Buckets: prometheus.DefBuckets,
	}, []string{"worker"})

	// DegradedAnalyses counts results produced by a fallback path after an
	// upstream dependency failed.
	DegradedAnalyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsegraph_worker_degraded_analyses_total",
		Help: "Analyses produced by a fallback path.",
	}, []string{"worker"})

	// CacheWriteErrors counts failed result cache writes.
	CacheWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsegraph_worker_cache_write_errors_total",
		Help: "Failed writes to the result cache.",
	}, []string{"worker"})

	// GraphWriteErrors counts failed graph mirror writes. These are warnings,
	// not processing failures.
	GraphWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsegraph_worker_graph_write_errors_total",
		Help: "Failed writes to the relationship graph.",
	}, []string{"worker"})
)
