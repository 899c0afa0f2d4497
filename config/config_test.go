package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Host.EntryURL != DefaultEntryURL {
		t.Errorf("EntryURL = %q, want %q", cfg.Host.EntryURL, DefaultEntryURL)
	}
	if cfg.Host.Capability != DefaultCapability {
		t.Errorf("Capability = %q, want %q", cfg.Host.Capability, DefaultCapability)
	}
	if cfg.LoadTimeout() != 3000*time.Millisecond {
		t.Errorf("LoadTimeout = %v, want 3s", cfg.LoadTimeout())
	}
	if cfg.ProbeTimeout() != time.Second {
		t.Errorf("ProbeTimeout = %v, want 1s", cfg.ProbeTimeout())
	}
	if cfg.Provider.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Provider.Addr, DefaultAddr)
	}
	if cfg.Telemetry.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.Telemetry.LogLevel)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
host:
  entry_url: http://remote:4174/assets/entry.wasm
  capability: remote/Card
  load_timeout_ms: 1500
provider:
  addr: ":4174"
  bundle: ./button.wasm
telemetry:
  log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Host.EntryURL != "http://remote:4174/assets/entry.wasm" {
		t.Errorf("EntryURL = %q", cfg.Host.EntryURL)
	}
	if cfg.Host.Capability != "remote/Card" {
		t.Errorf("Capability = %q", cfg.Host.Capability)
	}
	if cfg.LoadTimeout() != 1500*time.Millisecond {
		t.Errorf("LoadTimeout = %v, want 1.5s", cfg.LoadTimeout())
	}
	// Omitted fields still take defaults.
	if cfg.Host.ProbeTimeoutMs != 1000 {
		t.Errorf("ProbeTimeoutMs = %d, want default 1000", cfg.Host.ProbeTimeoutMs)
	}
	if cfg.Provider.Bundle != "./button.wasm" {
		t.Errorf("Bundle = %q", cfg.Provider.Bundle)
	}
	if cfg.Telemetry.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.Telemetry.LogLevel)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "host: [not a mapping"},
		{"bad log level", "telemetry:\n  log_level: loud\n"},
		{"negative timeout", "host:\n  load_timeout_ms: -1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
