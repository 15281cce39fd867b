package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// Config controls queue sizing and producer pacing
type Config struct {
	// Capacity bounds the queue; zero means unbounded
	Capacity int
	// Pace is the minimum spacing between emitted events; zero disables pacing
	Pace time.Duration
}

// Result describes a completed pipeline run
type Result struct {
	Produced  int
	Applied   int
	NotFound  int
	SourceErr error
}

// Pipeline wires one producer and one consumer through a shared queue
type Pipeline struct {
	queue    *Queue
	producer *Producer
	consumer *Consumer
	logger   *slog.Logger
}

// New creates a pipeline reading from source and applying to store
func New(source domain.EventSource, store Applier, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	queue := NewQueue(cfg.Capacity)
	return &Pipeline{
		queue:    queue,
		producer: NewProducer(source, queue, cfg.Pace, logger),
		consumer: NewConsumer(queue, store, logger),
		logger:   logger,
	}
}

// Run starts both tasks and joins the producer, then the consumer.
// When it returns every produced event has been applied exactly once.
func (p *Pipeline) Run(ctx context.Context) Result {
	type produced struct {
		n   int
		err error
	}
	producerDone := make(chan produced, 1)
	consumerDone := make(chan ConsumerStats, 1)

	go func() {
		n, err := p.producer.Run(ctx)
		producerDone <- produced{n: n, err: err}
	}()
	go func() {
		consumerDone <- p.consumer.Run()
	}()

	prod := <-producerDone
	p.logger.Info("producer has finished", "events", prod.n)
	stats := <-consumerDone
	p.logger.Info("consumer has finished", "applied", stats.Applied, "not_found", stats.NotFound)

	return Result{
		Produced:  prod.n,
		Applied:   stats.Applied,
		NotFound:  stats.NotFound,
		SourceErr: prod.err,
	}
}

// ProducerState returns the producer's lifecycle state
func (p *Pipeline) ProducerState() ProducerState {
	return p.producer.State()
}

// ConsumerState returns the consumer's lifecycle state
func (p *Pipeline) ConsumerState() ConsumerState {
	return p.consumer.State()
}

// Done reports whether both tasks have finished
func (p *Pipeline) Done() bool {
	return p.producer.State() == ProducerDone && p.consumer.State() == ConsumerStopped
}
