package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/frdetect/fraud-detection-backend/internal/infrastructure/artifacts"
	"github.com/frdetect/fraud-detection-backend/internal/infrastructure/config"
	"github.com/frdetect/fraud-detection-backend/internal/metrics"
	"github.com/frdetect/fraud-detection-backend/internal/service/scoring"
)

// Server represents the prediction API server.
type Server struct {
	config     *config.Config
	httpServer *http.Server
	handler    *Handler
	logger     *zap.Logger
	scorer     scoring.Service
	registry   *metrics.Registry
}

// NewServer wires the API server: loads artifacts (degrading on failure
// rather than erroring), builds the scoring service, metrics and the
// middleware chain.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := artifacts.NewStore(cfg.Artifacts.ModelPath, cfg.Artifacts.ScalerPath)
	scorer := scoring.LoadFromStore(store, logger)

	promRegistry := prometheus.NewRegistry()
	registry := metrics.NewRegistry(promRegistry)
	if scorer.Ready() {
		registry.DegradedState.Set(0)
	} else {
		registry.DegradedState.Set(1)
	}

	handler := NewHandler(scorer, registry, logger)

	server := &Server{
		config:   cfg,
		handler:  handler,
		logger:   logger,
		scorer:   scorer,
		registry: registry,
	}

	mux := server.setupRoutes(promRegistry)

	middlewares := []Middleware{
		requestIDMiddleware,
		loggingMiddleware(logger),
		metricsMiddleware(registry),
		recoveryMiddleware(logger),
		rateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize),
	}

	var h http.Handler = mux
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return server, nil
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes(promRegistry *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handler.handleRoot)
	mux.HandleFunc("POST /predict", s.handler.handlePredict)

	mux.HandleFunc("GET /healthz", s.handler.handleLiveness)
	mux.HandleFunc("GET /health", s.handler.handleReadiness)

	mux.Handle("GET /metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))

	return mux
}

// Start runs the server until an error or a shutdown signal.
func (s *Server) Start() error {
	s.logger.Info("starting prediction API",
		zap.String("address", s.httpServer.Addr),
		zap.String("environment", s.config.Environment),
		zap.Bool("degraded", !s.scorer.Ready()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-sigCh:
		s.logger.Info("received shutdown signal", zap.Stringer("signal", sig))
		return s.Shutdown()
	}
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shutdown server", zap.Error(err))
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
