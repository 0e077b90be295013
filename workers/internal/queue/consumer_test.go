package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestConsumer_ProcessesQueuedEvents(t *testing.T) {
	mr, rdb := testRedis(t)
	queueName := event.QueueName(event.TypeChatAnalysis)

	mr.Lpush(queueName, `{"event_type":"chat_analysis","data":{"message":"gm","user":"alice"}}`)
	mr.Lpush(queueName, `{"event_type":"chat_analysis","data":{"message":"gn","user":"bob"}}`)

	handled := make(chan *event.RawEvent, 2)
	c := NewConsumer(rdb, event.TypeChatAnalysis, nil,
		WithTimings(50*time.Millisecond, 50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, func(_ context.Context, evt *event.RawEvent) error {
			handled <- evt
			return nil
		})
	}()

	var users []string
	for range 2 {
		select {
		case evt := <-handled:
			users = append(users, evt.String("user"))
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	// BRPOP drains the oldest entry first.
	assert.Equal(t, []string{"alice", "bob"}, users)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// The pop is destructive; nothing remains to redeliver.
	assert.False(t, mr.Exists(queueName))
}

func TestConsumer_DropsMalformedPayloadAndContinues(t *testing.T) {
	mr, rdb := testRedis(t)
	queueName := event.QueueName(event.TypeLeadScoring)

	mr.Lpush(queueName, `{not json`)
	mr.Lpush(queueName, `{"event_type":"lead_scoring","data":{"name":"Ada","email":"a@b.c"}}`)

	handled := make(chan *event.RawEvent, 1)
	c := NewConsumer(rdb, event.TypeLeadScoring, nil,
		WithTimings(50*time.Millisecond, 50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = c.Run(ctx, func(_ context.Context, evt *event.RawEvent) error {
			handled <- evt
			return nil
		})
	}()

	select {
	case evt := <-handled:
		assert.Equal(t, "Ada", evt.String("name"))
	case <-time.After(2 * time.Second):
		t.Fatal("valid event after malformed payload was not processed")
	}
}

type recordingDLQ struct {
	payloads chan []byte
}

func (r *recordingDLQ) Publish(_ context.Context, _ string, payload []byte) error {
	r.payloads <- payload
	return nil
}

func TestConsumer_MirrorsDroppedPayloads(t *testing.T) {
	mr, rdb := testRedis(t)
	mr.Lpush(event.QueueName(event.TypeChatAnalysis), `not json at all`)

	sink := &recordingDLQ{payloads: make(chan []byte, 1)}
	c := NewConsumer(rdb, event.TypeChatAnalysis, nil,
		WithTimings(50*time.Millisecond, 50*time.Millisecond),
		WithDeadLetter(sink))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = c.Run(ctx, func(context.Context, *event.RawEvent) error { return nil })
	}()

	select {
	case payload := <-sink.payloads:
		assert.Equal(t, "not json at all", string(payload))
	case <-time.After(2 * time.Second):
		t.Fatal("dropped payload was not mirrored")
	}
}

func TestConsumer_HandlerErrorBacksOff(t *testing.T) {
	mr, rdb := testRedis(t)
	queueName := event.QueueName(event.TypeChatAnalysis)
	mr.Lpush(queueName, `{"event_type":"chat_analysis","data":{}}`)
	mr.Lpush(queueName, `{"event_type":"chat_analysis","data":{}}`)

	calls := make(chan time.Time, 2)
	c := NewConsumer(rdb, event.TypeChatAnalysis, nil,
		WithTimings(50*time.Millisecond, 200*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = c.Run(ctx, func(context.Context, *event.RawEvent) error {
			calls <- time.Now()
			return errors.New("persist failed")
		})
	}()

	var first, second time.Time
	select {
	case first = <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("first event never handled")
	}
	select {
	case second = <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("second event never handled")
	}

	assert.GreaterOrEqual(t, second.Sub(first), 150*time.Millisecond)
}

func TestConsumer_CancelledBeforeStart(t *testing.T) {
	_, rdb := testRedis(t)
	c := NewConsumer(rdb, event.TypeChatAnalysis, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Run(ctx, func(context.Context, *event.RawEvent) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}
