package config

import (
	"os"
	"testing"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: "9090"
backend:
  base_url: http://backend.internal:8000
proxy:
  listen: ":8088"
  backend_url: http://localhost:9090
  frontend_url: http://localhost:3000
  api_prefix: /api
log:
  level: debug
transcript:
  enabled: true
  db_path: /tmp/transcript.db
`

// TestLoad verifies that Load unmarshals every section from a file named by CONFIG_PATH.
func TestLoad(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "9090" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Backend.BaseURL != "http://backend.internal:8000" {
		t.Fatalf("unexpected backend base_url: %s", cfg.Backend.BaseURL)
	}
	if cfg.Proxy.APIPrefix != "/api" {
		t.Fatalf("unexpected api_prefix: %s", cfg.Proxy.APIPrefix)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
	if !cfg.Transcript.Enabled || cfg.Transcript.DBPath != "/tmp/transcript.db" {
		t.Fatalf("unexpected transcript config: %+v", cfg.Transcript)
	}
}

// TestLoad_Defaults verifies defaults survive a minimal config file.
func TestLoad_Defaults(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString("log:\n  level: warn\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("default port not applied: %s", cfg.Server.Port)
	}
	if cfg.Proxy.APIPrefix != "/api" {
		t.Fatalf("default api_prefix not applied: %s", cfg.Proxy.APIPrefix)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected warn, got %s", cfg.Log.Level)
	}
}
