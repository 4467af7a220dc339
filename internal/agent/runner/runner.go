// Package runner executes orchestrator runs. It owns the ADK runner, the
// session service, the run mutex, audit logging and token metrics, and
// exposes one blocking Submit per user-triggered run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	adkmodel "google.golang.org/adk/model"
	adkrunner "google.golang.org/adk/runner"
	adksession "google.golang.org/adk/session"

	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/audit"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/model"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/orchestrator"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/projector"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/provider"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/stream"
	"github.com/YogaBharath-R/ITSM-Agent/internal/logging"
)

var logger = logging.GetLogger("agent.runner")

const (
	// AppName is the ADK application name.
	AppName = "itsm-agent"

	// DefaultUserID is used for all runs; there is no multi-user session
	// model, conversation state lives and dies with a single run.
	DefaultUserID = "default"
)

var (
	// ErrRunInProgress is returned when a submission overlaps an
	// executing run. The orchestrator is a single shared resource and
	// runs are serialized by construction.
	ErrRunInProgress = errors.New("a run is already in progress")

	// ErrEmptyIncident is returned when both subject and body are blank.
	ErrEmptyIncident = errors.New("incident subject and body are empty")
)

// Config contains the run service configuration.
type Config struct {
	// Model is the model name, or "mock" / "mock:<scenario-path>" for
	// offline runs.
	Model string

	// AnthropicAPIKey is the Anthropic API key. Required unless Model
	// selects the mock LLM.
	AnthropicAPIKey string

	// MaxTokens caps each LLM response. Zero uses the provider default.
	MaxTokens int

	// AuditLogPath is the JSONL audit log path. Empty disables auditing.
	AuditLogPath string

	// Registry receives the run metrics. Nil disables metric export to a
	// shared registry (an isolated one is used instead).
	Registry prometheus.Registerer
}

// sourceFunc creates the event source for one run. Replaceable in tests.
type sourceFunc func(ctx context.Context, runID, prompt string) (stream.Source, error)

// usageReporter is implemented by sources that track token usage.
type usageReporter interface {
	Usage() stream.Usage
}

// Service executes runs against the orchestrator agent. The orchestrator
// and ADK runner are constructed once and reused; Submit serializes runs
// with a mutex and rejects overlapping submissions.
type Service struct {
	config         Config
	adkRunner      *adkrunner.Runner
	sessionService adksession.Service
	auditLogger    *audit.Logger
	metrics        *Metrics
	newSource      sourceFunc

	runMu sync.Mutex

	reportsMu sync.RWMutex
	reports   map[string]string
}

// New creates the run service: LLM adapter, orchestrator agent with its
// five sub-agents, ADK runner, audit logger and metrics.
func New(cfg Config) (*Service, error) {
	s := &Service{
		config:         cfg,
		sessionService: adksession.InMemoryService(),
		reports:        make(map[string]string),
	}

	llm, err := createLLM(cfg)
	if err != nil {
		return nil, err
	}

	rootAgent, err := orchestrator.New(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator agent: %w", err)
	}

	s.adkRunner, err = adkrunner.New(adkrunner.Config{
		AppName:        AppName,
		Agent:          rootAgent,
		SessionService: s.sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ADK runner: %w", err)
	}

	if cfg.AuditLogPath != "" {
		s.auditLogger, err = audit.NewLogger(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create audit logger: %w", err)
		}
	}

	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s.metrics = NewMetrics(reg)

	s.newSource = s.adkSource
	return s, nil
}

// Model returns the configured model name.
func (s *Service) Model() string {
	return s.config.Model
}

// Submit executes one run to completion, pushing projection output to the
// sink as it is produced. It returns ErrRunInProgress without side effects
// when another run holds the service, and ErrEmptyIncident when the
// incident carries no text.
func (s *Service) Submit(ctx context.Context, inc Incident, sink projector.Sink) (*projector.RunState, error) {
	if inc.Blank() {
		return nil, ErrEmptyIncident
	}
	if !s.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	runID := uuid.NewString()
	prompt := inc.Prompt()
	start := time.Now()

	s.metrics.RunsInProgress.Inc()
	defer s.metrics.RunsInProgress.Dec()

	logger.Info("Starting run %s (model=%s)", runID, s.config.Model)
	if s.auditLogger != nil {
		_ = s.auditLogger.LogRunStart(runID, s.config.Model)
		_ = s.auditLogger.LogIncidentSubmitted(runID, prompt)
	}

	src, err := s.newSource(ctx, runID, prompt)
	if err != nil {
		s.finishRun(runID, start, nil, err)
		return nil, err
	}

	state, err := projector.Consume(ctx, src, s.wrapSink(runID, sink))

	if reporter, ok := src.(usageReporter); ok {
		s.recordUsage(runID, reporter.Usage())
	}

	s.finishRun(runID, start, state, err)
	if err != nil {
		return state, err
	}

	if state.RunID == "" {
		state.RunID = runID
	}
	if state.Content != "" {
		s.reportsMu.Lock()
		s.reports[state.RunID] = state.Content
		s.reportsMu.Unlock()
	}

	return state, nil
}

// Report returns the accumulated report for a completed run.
func (s *Service) Report(runID string) (string, bool) {
	s.reportsMu.RLock()
	defer s.reportsMu.RUnlock()
	content, ok := s.reports[runID]
	return content, ok
}

// Close flushes and closes the audit log.
func (s *Service) Close() error {
	if s.auditLogger != nil {
		return s.auditLogger.Close()
	}
	return nil
}

// adkSource creates a fresh session and the ADK-backed event source for
// one run. Sessions are per-run; nothing survives run completion.
func (s *Service) adkSource(ctx context.Context, runID, prompt string) (stream.Source, error) {
	_, err := s.sessionService.Create(ctx, &adksession.CreateRequest{
		AppName:   AppName,
		UserID:    DefaultUserID,
		SessionID: runID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return stream.NewADKSource(s.adkRunner, DefaultUserID, runID, runID, prompt), nil
}

func (s *Service) finishRun(runID string, start time.Time, state *projector.RunState, err error) {
	duration := time.Since(start)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		logger.ErrorWithErr("Run %s failed after %s", err, runID, duration)
		if s.auditLogger != nil {
			_ = s.auditLogger.LogError(runID, err)
		}
		return
	}

	s.metrics.RunsTotal.WithLabelValues("success").Inc()
	s.metrics.RunDuration.Observe(duration.Seconds())
	logger.Info("Run %s completed in %s (%d steps)", runID, duration, len(state.Steps))
	if s.auditLogger != nil {
		_ = s.auditLogger.LogRunComplete(runID, duration, len(state.Steps), len(state.Content))
	}
}

func (s *Service) recordUsage(runID string, usage stream.Usage) {
	if usage.Requests == 0 {
		return
	}
	s.metrics.LLMRequestsTotal.Add(float64(usage.Requests))
	s.metrics.TokensTotal.WithLabelValues("input").Add(float64(usage.InputTokens))
	s.metrics.TokensTotal.WithLabelValues("output").Add(float64(usage.OutputTokens))
	if s.auditLogger != nil {
		_ = s.auditLogger.LogRunMetrics(runID, usage.Requests, usage.InputTokens, usage.OutputTokens)
	}
}

// wrapSink layers audit logging over the caller's sink.
func (s *Service) wrapSink(runID string, sink projector.Sink) projector.Sink {
	if s.auditLogger == nil {
		return sink
	}
	return &auditSink{inner: sink, log: s.auditLogger, runID: runID}
}

type auditSink struct {
	inner projector.Sink
	log   *audit.Logger
	runID string
}

func (a *auditSink) Step(number int, step projector.Step) {
	a.inner.Step(number, step)
	switch step.Kind {
	case projector.StepDelegation:
		_ = a.log.LogDelegation(a.runID, step.Title)
	case projector.StepSuccess:
		_ = a.log.LogToolComplete(a.runID, step.Title, len(step.Content))
	}
}

func (a *auditSink) Progress(p float64)   { a.inner.Progress(p) }
func (a *auditSink) Status(msg string)    { a.inner.Status(msg) }
func (a *auditSink) Content(delta string) { a.inner.Content(delta) }

// createLLM selects the LLM adapter from the model spec. "mock" uses the
// built-in scenario; "mock:<path>" loads a scenario file; anything else is
// an Anthropic model name.
func createLLM(cfg Config) (adkmodel.LLM, error) {
	if strings.HasPrefix(cfg.Model, "mock") {
		parts := strings.SplitN(cfg.Model, ":", 2)
		if len(parts) == 1 {
			return model.NewMockLLMFromScenario(model.DefaultScenario()), nil
		}
		llm, err := model.NewMockLLM(parts[1])
		if err != nil {
			return nil, fmt.Errorf("failed to create mock LLM: %w", err)
		}
		return llm, nil
	}

	providerCfg := provider.DefaultConfig()
	providerCfg.Model = cfg.Model
	if cfg.MaxTokens > 0 {
		providerCfg.MaxTokens = cfg.MaxTokens
	}

	llm, err := model.NewAnthropicLLMWithKey(cfg.AnthropicAPIKey, &providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic LLM: %w", err)
	}
	return llm, nil
}
