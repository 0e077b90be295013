// Package validate checks required envelope fields before any analysis runs.
// A validation failure short-circuits straight to an error result: no analysis
// is attempted and the event is not retried.
package validate

import (
	"fmt"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// Error reports a missing or empty required field.
type Error struct {
	EventType string
	Field     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s event data: missing required field %q", e.EventType, e.Field)
}

// Lead requires non-empty name and email.
func Lead(evt *event.RawEvent) error {
	return requireNonEmpty(evt, event.TypeLeadScoring, "name", "email")
}

// Chat requires non-empty message and user.
func Chat(evt *event.RawEvent) error {
	return requireNonEmpty(evt, event.TypeChatAnalysis, "message", "user")
}

// Blockchain requires event_type to be present in the payload. Whether the
// value names a known sub-type is the pipeline's concern, not the validator's.
func Blockchain(evt *event.RawEvent) error {
	if evt == nil || evt.Data == nil {
		return &Error{EventType: event.TypeBlockchainEvents, Field: "event_type"}
	}
	if _, ok := evt.Data["event_type"]; !ok {
		return &Error{EventType: event.TypeBlockchainEvents, Field: "event_type"}
	}
	return nil
}

func requireNonEmpty(evt *event.RawEvent, eventType string, fields ...string) error {
	for _, f := range fields {
		if evt == nil || evt.Data == nil {
			return &Error{EventType: eventType, Field: f}
		}
		v, ok := evt.Data[f]
		if !ok {
			return &Error{EventType: eventType, Field: f}
		}
		if s, isString := v.(string); isString && s == "" {
			return &Error{EventType: eventType, Field: f}
		}
		if v == nil {
			return &Error{EventType: eventType, Field: f}
		}
	}
	return nil
}
