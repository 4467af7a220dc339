package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds the application configuration in priority order:
// defaults, then the optional YAML config file, then environment variables.
//
// Recognized environment variables:
//   - ANTHROPIC_API_KEY: credential for the hosted model (required unless mock)
//   - ITSM_MODEL: model handle override
//   - ITSM_PORT: API port override
//
// Load does not validate; callers decide when missing credentials are fatal
// (the server command does, the mock-model path does not).
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		APIPort:   DefaultAPIPort,
		Model:     DefaultModel,
		LogLevel:  "info",
		UIDir:     DefaultUIDir,
		MaxTokens: 8192,
	}

	if configPath != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %q: %w", configPath, err)
		}
		if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
			return nil, fmt.Errorf("failed to parse config from %q: %w", configPath, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func applyEnv(cfg *Config) {
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")

	if model := os.Getenv("ITSM_MODEL"); model != "" {
		cfg.Model = model
	}

	if portStr := os.Getenv("ITSM_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.APIPort = port
		}
	}
}
