// Package handlers implements the ingest API endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulsegraph-io/pulsegraph-stack/common/logging"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/auth"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/metrics"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// EventsHandler serves event submission and queue inspection.
type EventsHandler struct {
	rdb          *redis.Client
	log          *logging.Logger
	maxEventSize int64
	clock        event.Clock
}

// NewEventsHandler builds the events handler.
func NewEventsHandler(rdb *redis.Client, log *logging.Logger, maxEventSize int64, clock event.Clock) *EventsHandler {
	if log == nil {
		log = logging.Default()
	}
	if clock == nil {
		clock = event.SystemClock
	}
	if maxEventSize <= 0 {
		maxEventSize = 1 << 20
	}
	return &EventsHandler{rdb: rdb, log: log, maxEventSize: maxEventSize, clock: clock}
}

type ingestRequest struct {
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

type ingestResponse struct {
	Status                  string `json:"status"`
	EventID                 string `json:"event_id"`
	Queue                   string `json:"queue"`
	EstimatedProcessingTime string `json:"estimated_processing_time"`
}

// Ingest accepts one event and enqueues it for its worker.
func (h *EventsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxEventSize)

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.EventsRejected.WithLabelValues("too_large").Inc()
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"detail": "event too large"})
			return
		}
		metrics.EventsRejected.WithLabelValues("bad_json").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}

	if !slices.Contains(event.Types(), req.EventType) {
		metrics.EventsRejected.WithLabelValues("unknown_type").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"detail":      "unknown event_type",
			"event_types": event.Types(),
		})
		return
	}
	if req.Data == nil {
		metrics.EventsRejected.WithLabelValues("missing_data").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "data is required"})
		return
	}

	now := h.clock()
	envelope := event.RawEvent{
		EventType: req.EventType,
		Data:      req.Data,
		Metadata:  req.Metadata,
		Timestamp: req.Timestamp,
	}
	if envelope.Timestamp == "" {
		envelope.Timestamp = now.Format(time.RFC3339)
	}
	if claims := auth.ClaimsFromContext(ctx); claims != nil {
		envelope.UserID = claims.UserID
		envelope.UserEmail = claims.Email
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		h.log.ErrorContext(ctx, "encoding envelope failed", logging.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "failed to ingest event"})
		return
	}

	queueName := event.QueueName(req.EventType)
	if err := h.rdb.LPush(ctx, queueName, payload).Err(); err != nil {
		h.log.ErrorContext(ctx, "enqueue failed",
			logging.FieldEventType, req.EventType, logging.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "queue unavailable"})
		return
	}

	metrics.EventsIngested.WithLabelValues(req.EventType).Inc()
	h.log.InfoContext(ctx, "event ingested",
		logging.FieldEventType, req.EventType, logging.FieldQueue, queueName)

	writeJSON(w, http.StatusAccepted, ingestResponse{
		Status:                  "queued",
		EventID:                 event.NewID(req.EventType, now),
		Queue:                   queueName,
		EstimatedProcessingTime: "30s",
	})
}

// Types lists the event types the pipeline serves.
func (h *EventsHandler) Types(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"event_types": event.Types()})
}

// QueueStatus reports pending depth for every queue.
func (h *EventsHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := make(map[string]any, len(event.Types()))
	for _, t := range event.Types() {
		queueName := event.QueueName(t)
		depth, err := h.rdb.LLen(ctx, queueName).Result()
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "failed to get queue status"})
			return
		}
		status[t] = map[string]any{
			"queue_name":     queueName,
			"pending_events": depth,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"queue_status": status})
}

// Recent returns the latest processed results, optionally filtered by type.
func (h *EventsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	pattern := "processed:*"
	if t := r.URL.Query().Get("event_type"); t != "" {
		pattern = "processed:" + t + ":*"
	}

	keys, err := h.rdb.Keys(ctx, pattern).Result()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "failed to get recent events"})
		return
	}

	// Key names end in a unix timestamp, so lexicographic order is
	// chronological within a type.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if len(keys) > limit {
		keys = keys[:limit]
	}

	events := make([]json.RawMessage, 0, len(keys))
	for _, key := range keys {
		raw, err := h.rdb.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		if !json.Valid([]byte(raw)) {
			continue
		}
		events = append(events, json.RawMessage(raw))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  len(events),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
