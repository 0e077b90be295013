// Package metrics defines the Prometheus instruments for the ingest API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsIngested counts accepted events per type.
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsegraph_ingest_events_total",
		Help: "Events accepted and enqueued.",
	}, []string{"event_type"})

	// EventsRejected counts rejected submissions by reason.
	EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsegraph_ingest_events_rejected_total",
		Help: "Event submissions rejected before enqueueing.",
	}, []string{"reason"})

	// RateLimitHits counts requests refused by the rate limiter.
	RateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsegraph_ingest_rate_limit_hits_total",
		Help: "Requests refused by the rate limiter.",
	}, []string{"key"})

	// RequestDuration observes handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pulsegraph_ingest_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})
)
