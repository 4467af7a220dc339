// Package apiserver exposes the ITSM agent over HTTP: run submission with
// server-sent progress events, report download, team listing, health and
// metrics endpoints, and the static chat UI.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/projector"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/runner"
	"github.com/YogaBharath-R/ITSM-Agent/internal/api"
	"github.com/YogaBharath-R/ITSM-Agent/internal/logging"
)

// AgentRunner is the run service surface the server depends on. Satisfied
// by runner.Service; tests inject fakes.
type AgentRunner interface {
	Submit(ctx context.Context, inc runner.Incident, sink projector.Sink) (*projector.RunState, error)
	Report(runID string) (string, bool)
	Model() string
}

// TracingProvider supplies tracers when tracing is enabled.
type TracingProvider interface {
	GetTracer(string) trace.Tracer
	IsEnabled() bool
}

// Server handles HTTP API requests.
type Server struct {
	port            int
	server          *http.Server
	logger          *logging.Logger
	router          *http.ServeMux
	agentRunner     AgentRunner
	uiDir           string
	registry        *prometheus.Registry
	metrics         *httpMetrics
	tracingProvider TracingProvider
}

// Config holds server construction parameters.
type Config struct {
	// Port is the listen port.
	Port int

	// Runner executes agent runs.
	Runner AgentRunner

	// UIDir is the directory holding the static chat UI. Empty disables
	// static serving.
	UIDir string

	// Registry is the Prometheus registry served at /metrics. Nil
	// creates a private one.
	Registry *prometheus.Registry

	// Tracing supplies tracers; nil falls back to the global provider.
	Tracing TracingProvider
}

// New creates the API server and registers all routes.
func New(cfg Config) *Server {
	s := &Server{
		port:            cfg.Port,
		logger:          logging.GetLogger("api"),
		router:          http.NewServeMux(),
		agentRunner:     cfg.Runner,
		uiDir:           cfg.UIDir,
		registry:        cfg.Registry,
		tracingProvider: cfg.Tracing,
	}

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newHTTPMetrics(s.registry)

	s.registerHandlers()
	s.configureHTTPServer(cfg.Port)

	return s
}

// configureHTTPServer creates the HTTP server with CORS middleware and
// timeouts. The write timeout is long because a run streams over SSE for
// as long as the orchestrator takes.
func (s *Server) configureHTTPServer(port int) {
	handler := s.corsMiddleware(s.metricsMiddleware(s.router))

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  1 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
}

// Start implements the lifecycle.Component interface.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting API server on port %d", s.port)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	s.logger.Info("API server started and listening on port %d", s.port)
	return nil
}

// Stop implements the lifecycle.Component interface.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")

	done := make(chan error, 1)
	go func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- s.server.Shutdown(shutdownCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("HTTP server shutdown error: %v", err)
			return err
		}
		s.logger.Info("API server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("API server shutdown timeout")
		return ctx.Err()
	}
}

// Name implements the lifecycle.Component interface.
func (s *Server) Name() string {
	return "API Server"
}

// GetPort returns the port the server is listening on.
func (s *Server) GetPort() int {
	return s.port
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = api.WriteJSON(w, map[string]interface{}{
		"status": "healthy",
	})
}

// handleReady handles readiness check requests. The server is ready as
// soon as the run service is constructed; a missing runner means startup
// is still in progress.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ready := s.agentRunner != nil
	if ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = api.WriteJSON(w, map[string]interface{}{
		"ready": ready,
	})
}

// getTracer returns a tracer for the given name.
func (s *Server) getTracer(name string) trace.Tracer {
	if s.tracingProvider != nil && s.tracingProvider.IsEnabled() {
		return s.tracingProvider.GetTracer(name)
	}
	return otel.GetTracerProvider().Tracer(name)
}
