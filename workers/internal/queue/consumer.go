// Package queue consumes event envelopes from Redis lists. The pop is
// destructive: an envelope is gone from the queue the moment it is read, so
// delivery is at most once and a crash mid-processing loses the event.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulsegraph-io/pulsegraph-stack/common/logging"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/metrics"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// Default loop timings, matching the queue's expected latency profile.
const (
	DefaultPollTimeout  = time.Second
	DefaultErrorBackoff = 5 * time.Second
)

// Handler processes one decoded envelope. A returned error triggers the
// consumer's backoff, not a retry of the envelope.
type Handler func(ctx context.Context, evt *event.RawEvent) error

// DeadLetterer mirrors undecodable payloads. Optional.
type DeadLetterer interface {
	Publish(ctx context.Context, workerType string, payload []byte) error
}

// Consumer runs the blocking-pop loop for one worker type.
type Consumer struct {
	rdb        *redis.Client
	workerType string

	pollTimeout  time.Duration
	errorBackoff time.Duration

	log *logging.Logger
	dlq DeadLetterer
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithTimings overrides the poll timeout and error backoff.
func WithTimings(pollTimeout, errorBackoff time.Duration) Option {
	return func(c *Consumer) {
		if pollTimeout > 0 {
			c.pollTimeout = pollTimeout
		}
		if errorBackoff > 0 {
			c.errorBackoff = errorBackoff
		}
	}
}

// WithDeadLetter mirrors dropped payloads to the given sink.
func WithDeadLetter(dlq DeadLetterer) Option {
	return func(c *Consumer) { c.dlq = dlq }
}

// NewConsumer builds a consumer for one worker type's queue.
func NewConsumer(rdb *redis.Client, workerType string, log *logging.Logger, opts ...Option) *Consumer {
	if log == nil {
		log = logging.Default()
	}
	c := &Consumer{
		rdb:          rdb,
		workerType:   workerType,
		pollTimeout:  DefaultPollTimeout,
		errorBackoff: DefaultErrorBackoff,
		log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run loops until ctx is cancelled. Undecodable payloads are logged, counted,
// optionally dead-lettered, and dropped. Handler errors back the loop off
// without requeueing the envelope.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	queueName := event.QueueName(c.workerType)
	c.log.InfoContext(ctx, "consumer started",
		logging.FieldWorker, c.workerType, logging.FieldQueue, queueName)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		vals, err := c.rdb.BRPop(ctx, c.pollTimeout, queueName).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.ErrorContext(ctx, "queue pop failed",
				logging.FieldWorker, c.workerType, logging.Error(err))
			if !c.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		payload := []byte(vals[1])
		metrics.EventsConsumed.WithLabelValues(c.workerType).Inc()

		var evt event.RawEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			c.drop(ctx, payload, err)
			continue
		}

		if err := handle(ctx, &evt); err != nil {
			c.log.ErrorContext(ctx, "event handling failed",
				logging.FieldWorker, c.workerType, logging.Error(err))
			if !c.sleep(ctx) {
				return ctx.Err()
			}
		}
	}
}

func (c *Consumer) drop(ctx context.Context, payload []byte, decodeErr error) {
	c.log.ErrorContext(ctx, "dropping undecodable payload",
		logging.FieldWorker, c.workerType, logging.Error(decodeErr))
	metrics.MalformedPayloads.WithLabelValues(c.workerType).Inc()

	if c.dlq == nil {
		return
	}
	if err := c.dlq.Publish(ctx, c.workerType, payload); err != nil {
		c.log.WarnContext(ctx, "dead-letter publish failed",
			logging.FieldWorker, c.workerType, logging.Error(err))
	}
}

func (c *Consumer) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.errorBackoff):
		return true
	}
}
