package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid with key",
			cfg:  Config{APIPort: 8080, Model: "claude-sonnet-4-5-20250929", AnthropicAPIKey: "sk-test"},
		},
		{
			name:    "missing key for hosted model",
			cfg:     Config{APIPort: 8080, Model: "claude-sonnet-4-5-20250929"},
			wantErr: true,
		},
		{
			name: "mock model needs no key",
			cfg:  Config{APIPort: 8080, Model: "mock:scenarios/delegation.yaml"},
		},
		{
			name:    "invalid port",
			cfg:     Config{APIPort: 0, Model: "mock"},
			wantErr: true,
		},
		{
			name:    "empty model",
			cfg:     Config{APIPort: 8080},
			wantErr: true,
		},
		{
			name:    "tracing without endpoint",
			cfg:     Config{APIPort: 8080, Model: "mock", TracingEnabled: true},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ITSM_MODEL", "")
	t.Setenv("ITSM_PORT", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIPort != DefaultAPIPort {
		t.Errorf("APIPort = %d, want %d", cfg.APIPort, DefaultAPIPort)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.UIDir != DefaultUIDir {
		t.Errorf("UIDir = %q, want %q", cfg.UIDir, DefaultUIDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("ITSM_MODEL", "")
	t.Setenv("ITSM_PORT", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "itsm.yaml")
	content := "api_port: 9090\nmodel: claude-3-5-sonnet-20241022\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", cfg.APIPort)
	}
	if cfg.Model != "claude-3-5-sonnet-20241022" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.AnthropicAPIKey != "sk-test" {
		t.Errorf("AnthropicAPIKey = %q, want env value", cfg.AnthropicAPIKey)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-env")
	t.Setenv("ITSM_MODEL", "mock:scenarios/delegation.yaml")
	t.Setenv("ITSM_PORT", "7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model != "mock:scenarios/delegation.yaml" {
		t.Errorf("Model = %q, want env override", cfg.Model)
	}
	if cfg.APIPort != 7070 {
		t.Errorf("APIPort = %d, want 7070", cfg.APIPort)
	}
	if !cfg.UsesMockModel() {
		t.Error("UsesMockModel() = false, want true")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/itsm.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
