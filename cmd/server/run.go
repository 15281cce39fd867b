package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/priorityflow-backend/internal/domain"
	"github.com/simaogato/priorityflow-backend/internal/usecase/monitor"
	"github.com/simaogato/priorityflow-backend/internal/usecase/pipeline"
	"github.com/simaogato/priorityflow-backend/internal/usecase/portfolio"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load the portfolio, apply every event once, persist and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.factory.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.run(ctx)
		},
	}
	addPipelineFlags(cmd)
	return cmd
}

// run loads the collection, drives the pipeline to completion while the
// monitor reports, persists the final state and then stops the monitor
func (a *app) run(ctx context.Context) error {
	store, events, err := a.prepare(ctx)
	if err != nil {
		return err
	}

	p := pipeline.New(events, store, a.pipelineConfig(), a.logger)
	mon := monitor.New(store, monitor.LogObserver(a.logger), a.cfg.Monitor.Interval)

	monCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()

	var g errgroup.Group
	g.Go(func() error { return mon.Run(monCtx) })

	res := p.Run(ctx)
	a.logResult(res)

	if err := a.persist(ctx, store); err != nil {
		stopMonitor()
		_ = g.Wait()
		return err
	}

	stopMonitor()
	if err := g.Wait(); err != nil {
		return err
	}
	monitor.LogObserver(a.logger)(mon.Snapshot())
	return nil
}

// prepare builds the store and loads it, and resolves the event source
func (a *app) prepare(ctx context.Context) (*portfolio.Store, domain.EventSource, error) {
	assets, err := a.factory.AssetRepository(ctx, a.cfg.Portfolio.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open portfolio source: %w", err)
	}
	events, err := a.factory.EventSource(ctx, a.cfg.Events.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open event source: %w", err)
	}

	store := portfolio.NewStore(portfolio.WithLogger(a.logger))
	store.Load(ctx, assets)
	return store, events, nil
}

// persist writes the final collection to the configured sink. Shutdown
// cancellation must not abort the final write.
func (a *app) persist(ctx context.Context, store *portfolio.Store) error {
	sink, err := a.factory.AssetRepository(ctx, a.cfg.Portfolio.Sink)
	if err != nil {
		return fmt.Errorf("failed to open portfolio sink: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	store.Persist(writeCtx, sink)
	return nil
}

func (a *app) pipelineConfig() pipeline.Config {
	return pipeline.Config{
		Capacity: a.cfg.Pipeline.Capacity,
		Pace:     a.cfg.Pipeline.Pace,
	}
}

func (a *app) logResult(res pipeline.Result) {
	attrs := []any{
		"produced", res.Produced,
		"applied", res.Applied,
		"not_found", res.NotFound,
	}
	if res.SourceErr != nil {
		a.logger.Error("pipeline finished without events", append(attrs, "error", res.SourceErr)...)
		return
	}
	a.logger.Info("pipeline finished", attrs...)
}

func parseDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return d, nil
}
