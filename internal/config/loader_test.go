package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port, got %q", cfg.Server.Port)
	}
	if cfg.Gateway.Model != "gemini-1.5-flash-latest" {
		t.Errorf("expected default model, got %q", cfg.Gateway.Model)
	}
	if cfg.Executors.DefaultTimeout != 30*time.Second {
		t.Errorf("expected default executor timeout, got %v", cfg.Executors.DefaultTimeout)
	}
}

func TestLoadFromYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mindcore.yaml")
	yaml := `
server:
  port: "9090"
gateway:
  timeout: 5s
executors:
  default_timeout: 10s
  timeouts:
    shopping: 45s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected yaml port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Gateway.Timeout != 5*time.Second {
		t.Errorf("expected 5s gateway timeout, got %v", cfg.Gateway.Timeout)
	}
	if got := cfg.Executors.TimeoutFor("shopping"); got != 45*time.Second {
		t.Errorf("expected 45s shopping timeout, got %v", got)
	}
	if got := cfg.Executors.TimeoutFor("message"); got != 10*time.Second {
		t.Errorf("expected default 10s message timeout, got %v", got)
	}
}

func TestLoadFromEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mindcore.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MINDCORE_PORT", "7070")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MINDCORE_GATEWAY_TIMEOUT", "3s")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected env port 7070, got %q", cfg.Server.Port)
	}
	if cfg.Gateway.APIKey != "test-key" {
		t.Errorf("expected env api key, got %q", cfg.Gateway.APIKey)
	}
	if cfg.Gateway.Timeout != 3*time.Second {
		t.Errorf("expected env 3s timeout, got %v", cfg.Gateway.Timeout)
	}
}

func TestLoadFromRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mindcore.yaml")
	if err := os.WriteFile(path, []byte("gateway:\n  timeout: -1s\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected validation error for negative gateway timeout")
	}
}
