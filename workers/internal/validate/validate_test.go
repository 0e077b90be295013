package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

func TestLead(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string]any
		wantField string
	}{
		{
			name: "valid",
			data: map[string]any{"name": "Ada Lovelace", "email": "ada@acme.io"},
		},
		{
			name:      "missing name",
			data:      map[string]any{"email": "ada@acme.io"},
			wantField: "name",
		},
		{
			name:      "empty email",
			data:      map[string]any{"name": "Ada", "email": ""},
			wantField: "email",
		},
		{
			name:      "nil data",
			data:      nil,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Lead(&event.RawEvent{EventType: event.TypeLeadScoring, Data: tt.data})
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *Error
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestChat(t *testing.T) {
	assert.NoError(t, Chat(&event.RawEvent{Data: map[string]any{"message": "gm", "user": "alice"}}))

	err := Chat(&event.RawEvent{Data: map[string]any{"message": "gm"}})
	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "user", vErr.Field)
}

func TestBlockchain(t *testing.T) {
	// Presence is enough; an unknown sub-type is the pipeline's error.
	assert.NoError(t, Blockchain(&event.RawEvent{Data: map[string]any{"event_type": "nft_sale"}}))
	assert.NoError(t, Blockchain(&event.RawEvent{Data: map[string]any{"event_type": "something_else"}}))

	err := Blockchain(&event.RawEvent{Data: map[string]any{"collection": "apes"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event_type")
}
