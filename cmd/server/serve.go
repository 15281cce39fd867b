package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	grpcadapter "github.com/simaogato/priorityflow-backend/internal/adapter/grpc"
	"github.com/simaogato/priorityflow-backend/internal/usecase/monitor"
	"github.com/simaogato/priorityflow-backend/internal/usecase/pipeline"
	"github.com/simaogato/priorityflow-backend/internal/usecase/portfolio"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline and keep health, metrics and the monitor up until signalled",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.factory.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	addPipelineFlags(cmd)
	return cmd
}

// serve runs the pipeline once, then keeps the readers alive until ctx is
// done. The collection is persisted on shutdown.
func (a *app) serve(ctx context.Context) error {
	store, events, err := a.prepare(ctx)
	if err != nil {
		return err
	}
	registerStoreMetrics(store)

	p := pipeline.New(events, store, a.pipelineConfig(), a.logger)
	mon := monitor.New(store, monitor.LogObserver(a.logger), a.cfg.Monitor.Interval)

	ready := func() bool {
		return !p.Done() || store.Len() > 0
	}
	grpcServer := grpcadapter.NewServer(ready, time.Second, a.logger)

	lis, err := net.Listen("tcp", a.cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.GRPC.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logResult(p.Run(gctx))
		return nil
	})
	g.Go(func() error { return mon.Run(gctx) })
	g.Go(func() error { return grpcServer.Serve(gctx, lis) })
	if a.cfg.Metrics.Addr != "" {
		g.Go(func() error { return serveMetrics(gctx, a.cfg.Metrics.Addr, a.logger) })
	}

	a.logger.Info("priorityflow serving", "grpc_addr", a.cfg.GRPC.Addr, "metrics_addr", a.cfg.Metrics.Addr)
	waitErr := g.Wait()
	a.logger.Info("shutting down gracefully")

	if err := a.persist(ctx, store); err != nil {
		return errors.Join(waitErr, err)
	}
	return waitErr
}

func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", "error", err)
		}
	}()

	logger.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// registerStoreMetrics exposes the store counters as gauges; call once per process
func registerStoreMetrics(store *portfolio.Store) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "priorityflow_portfolio_assets",
		Help: "Number of assets in the portfolio",
	}, func() float64 { return float64(store.Len()) })
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "priorityflow_history_records",
		Help: "Number of processed events recorded in history",
	}, func() float64 { return float64(store.HistoryLen()) })
}
