// Package config manages gohfp daemon configuration using koanf/v2.
//
// Supports YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete gohfp configuration.
type Config struct {
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
	SDP     SDPConfig     `koanf:"sdp"`
	HFP     HFPConfig     `koanf:"hfp"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9105").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// SDPConfig holds the fields the service record builder (internal/hfp's
// C8) needs to advertise this process's Handsfree Audio Gateway service.
type SDPConfig struct {
	// ServiceName is the human-readable name published in the SDP record.
	ServiceName string `koanf:"service_name"`
	// ChannelNr is the RFCOMM server channel the service registers on.
	ChannelNr uint8 `koanf:"channel_nr"`
	// SupportedFeatures is the AG feature bitmap advertised in the
	// service record's trailing integer (spec.md §4.8).
	SupportedFeatures uint16 `koanf:"supported_features"`
}

// HFPConfig holds the AG indicator and generic status indicator templates.
// gohfpctl's indicators command prints them; nothing copies them into an
// internal/hfp.Session.
type HFPConfig struct {
	// AGIndicators lists the AG status indicators this Audio Gateway
	// advertises over AT+CIND=?.
	AGIndicators []AGIndicatorConfig `koanf:"ag_indicators"`
	// GenericStatusIndicatorUUIDs lists the generic (HF) status
	// indicator UUIDs this Audio Gateway supports.
	GenericStatusIndicatorUUIDs []uint16 `koanf:"generic_status_indicator_uuids"`
}

// AGIndicatorConfig describes one AG indicator template entry.
type AGIndicatorConfig struct {
	Name      string `koanf:"name"`
	MinRange  int    `koanf:"min_range"`
	MaxRange  int    `koanf:"max_range"`
	Mandatory bool   `koanf:"mandatory"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with the conventional HFP
// Audio Gateway indicator template (spec.md §9's "generic-indicator
// template" owned by the caller, not a package-level global).
func DefaultConfig() *Config {
	return &Config{
		Metrics: MetricsConfig{
			Addr: ":9105",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		SDP: SDPConfig{
			ServiceName:       "Handsfree Audio Gateway",
			ChannelNr:         1,
			SupportedFeatures: 0,
		},
		HFP: HFPConfig{
			AGIndicators: []AGIndicatorConfig{
				{Name: "service", MinRange: 0, MaxRange: 1, Mandatory: true},
				{Name: "call", MinRange: 0, MaxRange: 1, Mandatory: true},
				{Name: "callsetup", MinRange: 0, MaxRange: 3, Mandatory: true},
				{Name: "callheld", MinRange: 0, MaxRange: 2, Mandatory: false},
				{Name: "signal", MinRange: 0, MaxRange: 5, Mandatory: false},
				{Name: "roam", MinRange: 0, MaxRange: 1, Mandatory: false},
				{Name: "battchg", MinRange: 0, MaxRange: 5, Mandatory: false},
			},
			GenericStatusIndicatorUUIDs: []uint16{1, 2},
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for gohfp configuration.
// Variables are named GOHFP_<section>_<key>, e.g., GOHFP_METRICS_ADDR.
const envPrefix = "GOHFP_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (GOHFP_ prefix), and merges on top of DefaultConfig().
// Missing metrics, log and sdp fields inherit defaults. The hfp indicator
// templates are not part of the defaults layer: they come only from the
// file or the environment, and are empty when neither sets them.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms GOHFP_METRICS_ADDR -> metrics.addr.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"metrics.addr":            defaults.Metrics.Addr,
		"metrics.path":            defaults.Metrics.Path,
		"log.level":               defaults.Log.Level,
		"log.format":              defaults.Log.Format,
		"sdp.service_name":        defaults.SDP.ServiceName,
		"sdp.channel_nr":          defaults.SDP.ChannelNr,
		"sdp.supported_features":  defaults.SDP.SupportedFeatures,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

var (
	// ErrEmptyMetricsAddr indicates the metrics listen address is empty.
	ErrEmptyMetricsAddr = errors.New("metrics.addr must not be empty")

	// ErrInvalidChannelNr indicates the RFCOMM channel number is out of
	// the valid 1-30 range (RFCOMM server channels).
	ErrInvalidChannelNr = errors.New("sdp.channel_nr must be between 1 and 30")

	// ErrEmptyServiceName indicates the SDP service name is empty.
	ErrEmptyServiceName = errors.New("sdp.service_name must not be empty")

	// ErrInvalidIndicatorRange indicates an AG indicator's min_range
	// exceeds its max_range.
	ErrInvalidIndicatorRange = errors.New("ag indicator min_range must not exceed max_range")
)

// Validate checks the configuration for logical errors.
func Validate(cfg *Config) error {
	if cfg.Metrics.Addr == "" {
		return ErrEmptyMetricsAddr
	}

	if cfg.SDP.ServiceName == "" {
		return ErrEmptyServiceName
	}

	if cfg.SDP.ChannelNr < 1 || cfg.SDP.ChannelNr > 30 {
		return ErrInvalidChannelNr
	}

	for i, ind := range cfg.HFP.AGIndicators {
		if ind.MinRange > ind.MaxRange {
			return fmt.Errorf("hfp.ag_indicators[%d] %q: %w", i, ind.Name, ErrInvalidIndicatorRange)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the
// corresponding slog.Level. Unknown values default to slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
