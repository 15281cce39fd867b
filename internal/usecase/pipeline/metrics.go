package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// eventsProduced counts events pushed onto the queue
	eventsProduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priorityflow_events_produced_total",
		Help: "Total events pushed onto the pipeline queue",
	})

	// eventsApplied counts consumed events by lookup result
	eventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "priorityflow_events_applied_total",
		Help: "Total events applied to the store by result",
	}, []string{"result"})

	// sourceFailures counts event source read failures
	sourceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priorityflow_event_source_failures_total",
		Help: "Total event source read failures",
	})

	// queueDepth tracks the number of items waiting in the queue
	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "priorityflow_queue_depth",
		Help: "Items currently waiting in the pipeline queue",
	})

	// applyDuration tracks store update latency
	applyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "priorityflow_event_apply_duration_seconds",
		Help:    "Store update duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
	})
)

const (
	resultFound    = "found"
	resultNotFound = "not_found"
)
