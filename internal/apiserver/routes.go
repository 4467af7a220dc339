package apiserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerHandlers registers all HTTP handlers.
func (s *Server) registerHandlers() {
	// Run submission and report download
	s.router.HandleFunc("/api/runs", s.withMethod(http.MethodPost, s.handleSubmitRun))
	s.router.HandleFunc("/api/runs/", s.withMethod(http.MethodGet, s.handleReportDownload))

	// Team listing for the UI sidebar
	s.router.HandleFunc("/api/team", s.withMethod(http.MethodGet, s.handleTeam))

	// Health and readiness endpoints
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/ready", s.handleReady)

	// Prometheus metrics
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Static UI handler (must be last as catch-all)
	s.router.HandleFunc("/", s.serveStaticUI)
}
