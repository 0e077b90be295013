// Package worker binds a queue consumer to a processor and the persistence
// gateway. One Worker serves one event type.
package worker

import (
	"context"
	"time"

	"github.com/pulsegraph-io/pulsegraph-stack/common/logging"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/identity"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/metrics"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/persist"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/queue"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// Processor turns one envelope into exactly one result. Processors never
// return errors; a failed analysis is an error result.
type Processor interface {
	Type() string
	Process(ctx context.Context, evt *event.RawEvent) *event.Result
}

// Worker runs the consume-process-persist loop for one event type.
type Worker struct {
	consumer  *queue.Consumer
	processor Processor
	gateway   *persist.Gateway
	identity  identity.Store
	log       *logging.Logger
}

// New builds a worker. identity may be nil to skip user enrichment.
func New(consumer *queue.Consumer, processor Processor, gateway *persist.Gateway, ident identity.Store, log *logging.Logger) *Worker {
	if log == nil {
		log = logging.Default()
	}
	return &Worker{
		consumer:  consumer,
		processor: processor,
		gateway:   gateway,
		identity:  ident,
		log:       log,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	return w.consumer.Run(ctx, w.handle)
}

func (w *Worker) handle(ctx context.Context, evt *event.RawEvent) error {
	start := time.Now()
	workerType := w.processor.Type()

	w.enrich(ctx, evt)

	res := w.processor.Process(ctx, evt)

	status := "success"
	if res.IsError() {
		status = "error"
		w.log.WarnContext(ctx, "event processing failed",
			logging.FieldWorker, workerType,
			logging.FieldEventID, res.ID,
			"failure", res.Error)
	} else {
		w.log.InfoContext(ctx, "event processed",
			logging.FieldWorker, workerType,
			logging.FieldEventID, res.ID)
	}

	metrics.EventsProcessed.WithLabelValues(workerType, status).Inc()
	metrics.ProcessingDuration.WithLabelValues(workerType).Observe(time.Since(start).Seconds())

	return w.gateway.Persist(ctx, workerType, res)
}

// enrich fills in the submitter's email when the envelope only carries an ID.
// Lookup failures are ignored; enrichment is best effort.
func (w *Worker) enrich(ctx context.Context, evt *event.RawEvent) {
	if w.identity == nil || evt.UserID == "" || evt.UserEmail != "" {
		return
	}
	u, err := w.identity.UserByID(ctx, evt.UserID)
	if err != nil {
		w.log.DebugContext(ctx, "user lookup failed",
			logging.FieldUserID, evt.UserID, logging.Error(err))
		return
	}
	evt.UserEmail = u.Email
}
