package persist

import (
	"context"

	"github.com/pulsegraph-io/pulsegraph-stack/common/logging"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/metrics"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// GraphMirror is implemented by Graph and by test doubles.
type GraphMirror interface {
	Mirror(ctx context.Context, res *event.Result) error
}

// Gateway routes a result to its stores. A cache failure is the caller's
// problem; a graph failure is logged and counted but never propagated, so the
// graph being down cannot stall the pipeline.
type Gateway struct {
	cache *Cache
	graph GraphMirror
	log   *logging.Logger
}

// NewGateway builds a persistence gateway. A nil graph disables mirroring.
func NewGateway(cache *Cache, graph GraphMirror, log *logging.Logger) *Gateway {
	if log == nil {
		log = logging.Default()
	}
	return &Gateway{cache: cache, graph: graph, log: log}
}

// Persist stores one result. Error results are cached but never mirrored.
func (g *Gateway) Persist(ctx context.Context, workerType string, res *event.Result) error {
	if err := g.cache.Store(ctx, workerType, res); err != nil {
		metrics.CacheWriteErrors.WithLabelValues(workerType).Inc()
		return err
	}

	if g.graph == nil || res.IsError() {
		return nil
	}

	if err := g.graph.Mirror(ctx, res); err != nil {
		g.log.WarnContext(ctx, "graph mirror failed",
			logging.FieldWorker, workerType,
			logging.FieldEventID, res.ID,
			logging.Error(err))
		metrics.GraphWriteErrors.WithLabelValues(workerType).Inc()
	}
	return nil
}
