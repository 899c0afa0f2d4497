// Package config loads the YAML configuration shared by the host and
// provider commands.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/capability-host/errors"
)

// Config is the root configuration document.
type Config struct {
	Host      HostConfig      `yaml:"host"`
	Provider  ProviderConfig  `yaml:"provider"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// HostConfig configures the consuming side.
type HostConfig struct {
	// EntryURL is the remote bundle entry point probed and fetched.
	EntryURL string `yaml:"entry_url"`

	// Capability is the named unit to load from the bundle.
	Capability string `yaml:"capability"`

	// ProbeTimeoutMs bounds one reachability check.
	ProbeTimeoutMs int `yaml:"probe_timeout_ms"`

	// LoadTimeoutMs bounds one load attempt before falling back.
	LoadTimeoutMs int `yaml:"load_timeout_ms"`
}

// ProviderConfig configures the serving side.
type ProviderConfig struct {
	Addr      string `yaml:"addr"`
	EntryPath string `yaml:"entry_path"`

	// Bundle is the path of the wasm bundle to serve.
	Bundle string `yaml:"bundle"`
}

// TelemetryConfig configures logging.
type TelemetryConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Defaults for omitted fields.
const (
	DefaultEntryURL   = "http://localhost:5001/assets/entry.wasm"
	DefaultCapability = "remote/Button"
	DefaultAddr       = ":5001"

	defaultProbeTimeoutMs = 1000
	defaultLoadTimeoutMs  = 3000
)

// Load reads the config file at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "reading config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parsing config file")
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host.EntryURL == "" {
		c.Host.EntryURL = DefaultEntryURL
	}
	if c.Host.Capability == "" {
		c.Host.Capability = DefaultCapability
	}
	if c.Host.ProbeTimeoutMs == 0 {
		c.Host.ProbeTimeoutMs = defaultProbeTimeoutMs
	}
	if c.Host.LoadTimeoutMs == 0 {
		c.Host.LoadTimeoutMs = defaultLoadTimeoutMs
	}
	if c.Provider.Addr == "" {
		c.Provider.Addr = DefaultAddr
	}
	if c.Telemetry.LogLevel == "" {
		c.Telemetry.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.Host.ProbeTimeoutMs < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "probe_timeout_ms must not be negative")
	}
	if c.Host.LoadTimeoutMs < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "load_timeout_ms must not be negative")
	}
	switch c.Telemetry.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("unknown log level %q", c.Telemetry.LogLevel).
			Build()
	}
	return nil
}

// ProbeTimeout returns the probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Host.ProbeTimeoutMs) * time.Millisecond
}

// LoadTimeout returns the load timeout as a duration.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.Host.LoadTimeoutMs) * time.Millisecond
}
