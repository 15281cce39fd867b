package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check service name reported for the portfolio core
const ServiceName = "priorityflow.Portfolio"

// ReadinessFunc reports whether the portfolio core should be considered serving
type ReadinessFunc func() bool

// Server exposes the standard gRPC health service for the portfolio core
type Server struct {
	grpcServer *grpclib.Server
	health     *health.Server
	ready      ReadinessFunc
	interval   time.Duration
	logger     *slog.Logger
}

// NewServer creates a gRPC server with health and reflection registered.
// ready is polled every interval to refresh the reported status.
func NewServer(ready ReadinessFunc, interval time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}

	grpcServer := grpclib.NewServer(
		grpclib.UnaryInterceptor(LoggingInterceptor(logger)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	s := &Server{
		grpcServer: grpcServer,
		health:     hs,
		ready:      ready,
		interval:   interval,
		logger:     logger.With("component", "grpc"),
	}
	s.refresh()
	return s
}

// Serve accepts connections on lis until ctx is done, then stops gracefully
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
		errCh <- s.grpcServer.Serve(lis)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh()
		case err := <-errCh:
			if errors.Is(err, grpclib.ErrServerStopped) {
				return nil
			}
			return err
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			s.logger.Info("gRPC server stopped")
			return nil
		}
	}
}

func (s *Server) refresh() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if s.ready != nil && s.ready() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
