package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/runner"
	"github.com/YogaBharath-R/ITSM-Agent/internal/apiserver"
	"github.com/YogaBharath-R/ITSM-Agent/internal/config"
	"github.com/YogaBharath-R/ITSM-Agent/internal/lifecycle"
	"github.com/YogaBharath-R/ITSM-Agent/internal/logging"
	"github.com/YogaBharath-R/ITSM-Agent/internal/tracing"
)

var (
	apiPort            int
	uiDir              string
	serverModel        string
	serverAuditLog     string
	serverMaxTokens    int
	tracingEnabled     bool
	tracingEndpoint    string
	tracingTLSCAPath   string
	tracingTLSInsecure bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ITSM agent web server",
	Long: `Start the HTTP server that serves the chat UI, executes orchestrator
runs against the agent team, and streams run progress over server-sent
events.

Examples:
  # Start with the hosted model (requires ANTHROPIC_API_KEY)
  itsm-agent server

  # Offline mode with the scripted mock model
  itsm-agent server --model mock

  # Replay a recorded scenario
  itsm-agent server --model mock:scenarios/incident.yaml`,
	Run: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&apiPort, "api-port", config.DefaultAPIPort, "Port the API server listens on")
	serverCmd.Flags().StringVar(&uiDir, "ui-dir", config.DefaultUIDir, "Directory the static chat UI is served from")
	serverCmd.Flags().StringVar(&serverModel, "model", "",
		"Model handle, or 'mock' / 'mock:<scenario>' for offline runs (overrides config file)")
	serverCmd.Flags().StringVar(&serverAuditLog, "audit-log", "",
		"Path to write run audit log (JSONL format). If empty, audit logging is disabled.")
	serverCmd.Flags().IntVar(&serverMaxTokens, "max-tokens", 0, "Maximum tokens per model response (0 = config default)")
	serverCmd.Flags().BoolVar(&tracingEnabled, "tracing-enabled", false, "Enable OpenTelemetry tracing (default: false)")
	serverCmd.Flags().StringVar(&tracingEndpoint, "tracing-endpoint", "", "OTLP gRPC endpoint for traces (e.g., otel-collector:4317)")
	serverCmd.Flags().StringVar(&tracingTLSCAPath, "tracing-tls-ca", "", "Path to CA certificate for TLS verification (optional)")
	serverCmd.Flags().BoolVar(&tracingTLSInsecure, "tracing-tls-insecure", false, "Skip TLS certificate verification (insecure, use only for testing)")
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	HandleError(err, "Configuration error")
	applyServerFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		HandleError(err, "Configuration error")
	}

	// CLI log flags win over the config file's log_level.
	flags := logLevelFlags
	if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		flags = []string{cfg.LogLevel}
	}
	if err := setupLog(flags); err != nil {
		HandleError(err, "Failed to setup logging")
	}
	logger := logging.GetLogger("server")

	logger.Info("Starting ITSM Agent v%s", Version)
	logger.Debug("Configuration loaded: APIPort=%d Model=%s", cfg.APIPort, cfg.Model)

	manager := lifecycle.NewManager()

	// Initialize tracing provider
	tracingProvider, err := tracing.NewTracingProvider(tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.TracingEndpoint,
		TLSCAPath:   tracingTLSCAPath,
		TLSInsecure: tracingTLSInsecure,
	})
	if err != nil {
		logger.Warn("Failed to initialize tracing (continuing without tracing): %v", err)
		tracingProvider = nil
	}
	if tracingProvider != nil {
		if err := manager.Register(tracingProvider); err != nil {
			HandleError(err, "Tracing registration error")
		}
	}

	// The run service and the API server share one metrics registry so
	// /metrics exposes both HTTP and run/token series.
	registry := prometheus.NewRegistry()

	svc, err := runner.New(runner.Config{
		Model:           cfg.Model,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		MaxTokens:       cfg.MaxTokens,
		AuditLogPath:    cfg.AuditLogPath,
		Registry:        registry,
	})
	HandleError(err, "Run service initialization error")
	logger.Info("Run service created (model: %s)", svc.Model())

	apiCfg := apiserver.Config{
		Port:     cfg.APIPort,
		Runner:   svc,
		UIDir:    cfg.UIDir,
		Registry: registry,
	}
	if tracingProvider != nil {
		apiCfg.Tracing = tracingProvider
	}
	apiComponent := apiserver.New(apiCfg)
	if err := manager.Register(apiComponent); err != nil {
		HandleError(err, "API server registration error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := manager.Start(ctx); err != nil {
		HandleError(err, "Startup error")
	}

	logger.Info("Application started successfully")
	logger.Info("Chat UI available at http://localhost:%d/", cfg.APIPort)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received, gracefully shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := manager.Stop(shutdownCtx); err != nil {
		logger.Error("Error during shutdown: %v", err)
	}

	if err := svc.Close(); err != nil {
		logger.Error("Failed to close run service: %v", err)
	}

	logger.Info("Shutdown complete")
}

// applyServerFlags overlays explicitly set CLI flags onto the loaded
// configuration. Flags beat both the config file and environment variables.
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("api-port") {
		cfg.APIPort = apiPort
	}
	if cmd.Flags().Changed("ui-dir") {
		cfg.UIDir = uiDir
	}
	if serverModel != "" {
		cfg.Model = serverModel
	}
	if serverAuditLog != "" {
		cfg.AuditLogPath = serverAuditLog
	}
	if serverMaxTokens > 0 {
		cfg.MaxTokens = serverMaxTokens
	}
	if cmd.Flags().Changed("tracing-enabled") {
		cfg.TracingEnabled = tracingEnabled
	}
	if tracingEndpoint != "" {
		cfg.TracingEndpoint = tracingEndpoint
	}
}
