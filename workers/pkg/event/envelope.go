// Package event defines the envelope and result shapes shared by the ingest
// API, the worker pipeline, and the CLI.
package event

import (
	"time"
)

// Queue name prefixes and the worker types served by the pipeline.
const (
	TypeLeadScoring      = "lead_scoring"
	TypeBlockchainEvents = "blockchain_events"
	TypeChatAnalysis     = "chat_analysis"
)

// Types lists every event type the pipeline has a consumer for.
func Types() []string {
	return []string{TypeLeadScoring, TypeBlockchainEvents, TypeChatAnalysis}
}

// QueueName returns the Redis list name for an event type.
func QueueName(eventType string) string {
	return "events:" + eventType
}

// CacheKey returns the result cache key for a worker type and result ID.
func CacheKey(workerType, resultID string) string {
	return "processed:" + workerType + ":" + resultID
}

// RawEvent is the envelope enqueued by the ingestion layer. It is immutable
// once enqueued; workers never write back to the queue.
type RawEvent struct {
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	UserEmail string         `json:"user_email,omitempty"`
}

// String returns the string value of a data field, or "" when absent or not a
// string.
func (e *RawEvent) String(key string) string {
	if e == nil || e.Data == nil {
		return ""
	}
	s, _ := e.Data[key].(string)
	return s
}

// StringOr returns the string value of a data field, or fallback when absent.
func (e *RawEvent) StringOr(key, fallback string) string {
	if s := e.String(key); s != "" {
		return s
	}
	return fallback
}

// Float returns the numeric value of a data field, accepting the types
// encoding/json produces for numbers. Returns 0 for anything else.
func (e *RawEvent) Float(key string) float64 {
	if e == nil || e.Data == nil {
		return 0
	}
	switch v := e.Data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Clock supplies the current time for result ID generation. Tests inject a
// fixed clock to pin the second-granularity behavior.
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time { return time.Now().UTC() }
