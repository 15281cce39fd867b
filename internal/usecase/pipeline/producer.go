package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// Producer drains an EventSource into the queue and finishes with exactly one
// termination marker, whatever happens
type Producer struct {
	source  domain.EventSource
	queue   *Queue
	limiter *rate.Limiter
	logger  *slog.Logger
	state   atomic.Int32
}

// NewProducer creates a producer. A positive pace spaces consecutive events
// by at least that duration; zero disables pacing.
func NewProducer(source domain.EventSource, queue *Queue, pace time.Duration, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Producer{
		source: source,
		queue:  queue,
		logger: logger.With("task", "producer"),
	}
	if pace > 0 {
		p.limiter = rate.NewLimiter(rate.Every(pace), 1)
	}
	return p
}

// State returns the current lifecycle state
func (p *Producer) State() ProducerState {
	return ProducerState(p.state.Load())
}

// Run reads the whole source, then pushes every event in order followed by the
// termination marker. A read failure pushes only the marker. Cancelling ctx stops
// emission early; the marker is still pushed so the consumer terminates.
// Returns the number of events pushed and the source error, if any.
func (p *Producer) Run(ctx context.Context) (int, error) {
	defer p.state.Store(int32(ProducerDone))
	defer p.queue.Push(TerminationItem())

	p.state.Store(int32(ProducerReading))
	p.logger.Info("reading events")

	events, err := p.source.ReadAll(ctx)
	if err != nil {
		sourceFailures.Inc()
		p.logger.Error("could not read events, sending stop signal", "error", err)
		return 0, fmt.Errorf("failed to read events: %w", err)
	}

	p.state.Store(int32(ProducerEmitting))
	pushed := 0
	for _, event := range events {
		if err := p.pace(ctx); err != nil {
			p.logger.Warn("emission cancelled", "pushed", pushed, "remaining", len(events)-pushed, "error", err)
			return pushed, nil
		}

		p.queue.Push(EventItem(event))
		pushed++
		eventsProduced.Inc()
		queueLen := p.queue.Len()
		queueDepth.Set(float64(queueLen))
		p.logger.Debug("event queued", "asset_id", event.AssetID, "queue_len", queueLen)
	}

	p.logger.Info("finished all events, sent stop signal", "events", pushed)
	return pushed, nil
}

func (p *Producer) pace(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
