// Package config holds configuration for the ITSM agent application.
package config

// Default values used when neither the config file nor the environment
// provides a setting.
const (
	DefaultAPIPort = 8080
	DefaultModel   = "claude-sonnet-4-5-20250929"
	DefaultUIDir   = "web"
)

// Config holds all configuration for the application.
type Config struct {
	// APIPort is the port the web shell listens on.
	APIPort int `yaml:"api_port"`

	// Model is the model handle passed to the LLM provider.
	// The "mock:" prefix selects the scripted mock model.
	Model string `yaml:"model"`

	// AnthropicAPIKey is the API credential for the hosted model.
	// Required unless Model selects the mock provider.
	AnthropicAPIKey string `yaml:"-"`

	// LogLevel is the default logging level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// UIDir is the directory the static chat UI is served from.
	UIDir string `yaml:"ui_dir"`

	// AuditLogPath is the path the JSONL audit log is written to.
	// Empty disables audit logging.
	AuditLogPath string `yaml:"audit_log"`

	// MaxTokens caps the model response size per request.
	MaxTokens int `yaml:"max_tokens"`

	// TracingEnabled turns on OpenTelemetry trace export.
	TracingEnabled bool `yaml:"tracing_enabled"`

	// TracingEndpoint is the OTLP gRPC endpoint for trace export.
	TracingEndpoint string `yaml:"tracing_endpoint"`
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return NewConfigError("api_port must be between 1 and 65535")
	}

	if c.Model == "" {
		return NewConfigError("model must not be empty")
	}

	if !c.UsesMockModel() && c.AnthropicAPIKey == "" {
		return NewConfigError("ANTHROPIC_API_KEY not set")
	}

	if c.TracingEnabled && c.TracingEndpoint == "" {
		return NewConfigError("tracing_endpoint must be set when tracing is enabled")
	}

	return nil
}

// UsesMockModel reports whether the configured model selects the
// scripted mock provider instead of a hosted one.
func (c *Config) UsesMockModel() bool {
	return len(c.Model) >= 4 && c.Model[:4] == "mock"
}

// ConfigError represents a configuration error.
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return e.message
}
