// Package server wires the ingest API routes and middleware.
package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulsegraph-io/pulsegraph-stack/common/middleware"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/auth"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/handlers"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/metrics"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/ratelimit"
)

// NewRouter assembles the ingest HTTP handler. API routes require an analyst
// token and pass through the rate limiter; health and metrics do not.
func NewRouter(events *handlers.EventsHandler, analytics *handlers.AnalyticsHandler, tokens *auth.Manager, limiter ratelimit.Limiter) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/events/ingest", events.Ingest)
	api.HandleFunc("GET /api/v1/events/types", events.Types)
	api.HandleFunc("GET /api/v1/events/queue-status", events.QueueStatus)
	api.HandleFunc("GET /api/v1/events/recent", events.Recent)
	api.HandleFunc("GET /api/v1/analytics/dashboard", analytics.Dashboard)
	api.HandleFunc("GET /api/v1/analytics/leads", analytics.Leads)
	api.HandleFunc("GET /api/v1/analytics/blockchain", analytics.Blockchain)
	api.HandleFunc("GET /api/v1/analytics/chat", analytics.Chat)

	// Rate limiting runs after auth so the limit key is the user, not the
	// proxy address.
	protected := tokens.RequireAnalyst(ratelimit.Middleware(limiter)(instrument(api)))

	root := http.NewServeMux()
	root.Handle("/api/v1/", protected)
	root.Handle("/metrics", promhttp.Handler())
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middleware.RequestID(middleware.CORS(middleware.DefaultCORSConfig())(root))
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		metrics.RequestDuration.WithLabelValues(r.URL.Path, r.Method).
			Observe(time.Since(start).Seconds())
	})
}
