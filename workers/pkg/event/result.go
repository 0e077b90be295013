package event

import (
	"fmt"
	"time"
)

// Result is the terminal output of one pipeline run. Success and error results
// share the same envelope so the cache surface is a complete audit trail of
// attempts: a success carries Analysis and Insights, an error carries Error.
type Result struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	OriginalData map[string]any `json:"original_data"`
	Analysis     any            `json:"analysis,omitempty"`
	Insights     []string       `json:"insights,omitempty"`
	Error        string         `json:"error,omitempty"`
	ProcessedAt  time.Time      `json:"processed_at"`
	ProcessedBy  string         `json:"processed_by,omitempty"`
	Worker       string         `json:"worker"`
}

// IsError reports whether the result records a failed pipeline run.
func (r *Result) IsError() bool {
	return r != nil && r.Error != ""
}

// NewID builds a result ID as "{prefix}_{unix_seconds}".
//
// IDs are only unique at second granularity: two events of the same type
// processed within the same second collide and the later cache write wins.
// This is a known limitation inherited from the ID scheme; horizontal scaling
// of a worker type requires a collision-free scheme first.
func NewID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%d", prefix, now.Unix())
}

// NewResult builds a success result for the given envelope.
func NewResult(prefix, resultType, workerName string, evt *RawEvent, analysis any, insights []string, now time.Time) *Result {
	return &Result{
		ID:           NewID(prefix, now),
		Type:         resultType,
		OriginalData: evt.Data,
		Analysis:     analysis,
		Insights:     insights,
		ProcessedAt:  now,
		ProcessedBy:  evt.UserID,
		Worker:       workerName,
	}
}

// NewErrorResult builds an error result for the given envelope. The ID prefix
// and type gain an "_error" suffix, matching the success key scheme otherwise.
func NewErrorResult(prefix, resultType, workerName string, evt *RawEvent, procErr error, now time.Time) *Result {
	var data map[string]any
	if evt != nil {
		data = evt.Data
	}
	res := &Result{
		ID:           NewID(prefix+"_error", now),
		Type:         resultType + "_error",
		OriginalData: data,
		Error:        procErr.Error(),
		ProcessedAt:  now,
		Worker:       workerName,
	}
	if evt != nil {
		res.ProcessedBy = evt.UserID
	}
	return res
}
