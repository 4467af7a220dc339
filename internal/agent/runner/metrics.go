package runner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for agent run observability.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec // Completed runs by status
	RunsInProgress   prometheus.Gauge       // Currently executing runs (0 or 1)
	RunDuration      prometheus.Histogram   // End-to-end run duration
	TokensTotal      *prometheus.CounterVec // LLM tokens consumed by direction
	LLMRequestsTotal prometheus.Counter     // Individual LLM requests across runs
}

// NewMetrics creates Prometheus metrics for the run service. The registerer
// parameter allows flexible registration (e.g., global registry, test
// registry).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itsm_agent_runs_total",
		Help: "Total number of agent runs by final status",
	}, []string{"status"})

	runsInProgress := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "itsm_agent_runs_in_progress",
		Help: "Number of agent runs currently executing",
	})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "itsm_agent_run_duration_seconds",
		Help:    "End-to-end agent run duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	})

	tokensTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itsm_agent_llm_tokens_total",
		Help: "Total LLM tokens consumed by direction (input/output)",
	}, []string{"direction"})

	llmRequestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "itsm_agent_llm_requests_total",
		Help: "Total number of LLM requests across all runs",
	})

	reg.MustRegister(runsTotal)
	reg.MustRegister(runsInProgress)
	reg.MustRegister(runDuration)
	reg.MustRegister(tokensTotal)
	reg.MustRegister(llmRequestsTotal)

	return &Metrics{
		RunsTotal:        runsTotal,
		RunsInProgress:   runsInProgress,
		RunDuration:      runDuration,
		TokensTotal:      tokensTotal,
		LLMRequestsTotal: llmRequestsTotal,
	}
}
