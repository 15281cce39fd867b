package pipeline

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// Applier is the write side of the portfolio store used by the consumer
type Applier interface {
	ApplyUpdate(assetID, suggestion string, bump int) bool
}

// ConsumerStats summarises one consumer run
type ConsumerStats struct {
	Applied  int
	NotFound int
}

// Consumer drains the queue into an Applier until it sees the termination marker
type Consumer struct {
	queue  *Queue
	store  Applier
	logger *slog.Logger
	state  atomic.Int32
}

// NewConsumer creates a consumer
func NewConsumer(queue *Queue, store Applier, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		queue:  queue,
		store:  store,
		logger: logger.With("task", "consumer"),
	}
}

// State returns the current lifecycle state
func (c *Consumer) State() ConsumerState {
	return ConsumerState(c.state.Load())
}

// Run blocks on the queue and applies events in FIFO order.
// It returns after the termination marker and never reads past it.
func (c *Consumer) Run() ConsumerStats {
	var stats ConsumerStats
	for {
		c.state.Store(int32(ConsumerWaiting))
		item := c.queue.Pop()
		queueDepth.Set(float64(c.queue.Len()))

		switch item.Kind {
		case ItemTermination:
			c.state.Store(int32(ConsumerStopped))
			c.logger.Info("stop signal received, shutting down", "applied", stats.Applied, "not_found", stats.NotFound)
			return stats
		case ItemEvent:
			c.state.Store(int32(ConsumerProcessing))
			c.apply(item.Event, &stats)
		default:
			c.logger.Error("dropping queue item with unknown kind", "kind", item.Kind.String())
		}
	}
}

func (c *Consumer) apply(event domain.Event, stats *ConsumerStats) {
	start := time.Now()
	found := c.store.ApplyUpdate(event.AssetID, event.Suggestion, event.PriorityBump)
	applyDuration.Observe(time.Since(start).Seconds())

	stats.Applied++
	if !found {
		stats.NotFound++
		eventsApplied.WithLabelValues(resultNotFound).Inc()
		c.logger.Warn("event references asset not in portfolio",
			"asset_id", event.AssetID,
			"error", fmt.Errorf("%w: %s", domain.ErrAssetNotFound, event.AssetID))
		return
	}
	eventsApplied.WithLabelValues(resultFound).Inc()
	c.logger.Info("asset updated", "asset_id", event.AssetID, "bump", event.PriorityBump)
}
