// Package config loads analyzer settings from built-in defaults, an
// optional YAML file, and HEAPWATCH_* environment overrides, in that
// order.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all tunable capture and analysis parameters.
type Config struct {
	// ClockHz is the device cycle-counter frequency, for tick to
	// second conversion.
	ClockHz uint64 `yaml:"clock_hz" env:"HEAPWATCH_CLOCK_HZ"`
	// MaxPlotSeconds is the fixed session horizon in seconds.
	MaxPlotSeconds float64 `yaml:"max_plot_seconds" env:"HEAPWATCH_MAX_PLOT_SECONDS"`
	// Capacity is the device-side capture buffer limit in lines.
	Capacity int `yaml:"capacity" env:"HEAPWATCH_CAPACITY"`
	// WarnRatio is the capacity fill fraction above which merged
	// captures get a truncation advisory.
	WarnRatio float64 `yaml:"warn_ratio" env:"HEAPWATCH_WARN_RATIO"`
	// NoisePatterns mark console lines to strip before splitting.
	NoisePatterns []string `yaml:"noise_patterns"`
	// TransmissionMarker opens each repeated capture copy in a raw
	// console transcript.
	TransmissionMarker string `yaml:"transmission_marker" env:"HEAPWATCH_TRANSMISSION_MARKER"`
	// EndMarkers close the last capture copy.
	EndMarkers []string `yaml:"end_markers"`
	// Copies is how many times the device retransmits each capture.
	Copies int `yaml:"copies" env:"HEAPWATCH_COPIES"`
}

// Default returns the built-in configuration matching the capture
// firmware shipped on current devices.
func Default() *Config {
	return &Config{
		ClockHz:        600000000,
		MaxPlotSeconds: 300.0,
		Capacity:       65536,
		WarnRatio:      0.9,
		NoisePatterns: []string{
			"Called stream aggregated function when the device is not connected",
			"Unable to send system_status",
		},
		TransmissionMarker: "transmission",
		EndMarkers: []string{
			"Edgehog device sample finished",
			"Capture done",
		},
		Copies: 3,
	}
}

// HorizonTicks returns the session horizon in clock ticks.
func (c *Config) HorizonTicks() uint64 {
	return uint64(c.MaxPlotSeconds * float64(c.ClockHz))
}

// Seconds converts a tick count to seconds on this clock.
func (c *Config) Seconds(ticks uint64) float64 {
	return float64(ticks) / float64(c.ClockHz)
}

// Validate rejects parameter combinations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ClockHz == 0 {
		return fmt.Errorf("clock_hz must be positive")
	}
	if c.MaxPlotSeconds <= 0 {
		return fmt.Errorf("max_plot_seconds must be positive, got %v", c.MaxPlotSeconds)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.WarnRatio <= 0 || c.WarnRatio > 1 {
		return fmt.Errorf("warn_ratio must be in (0, 1], got %v", c.WarnRatio)
	}
	if c.TransmissionMarker == "" {
		return fmt.Errorf("transmission_marker must not be empty")
	}
	if c.Copies < 1 {
		return fmt.Errorf("copies must be at least 1, got %d", c.Copies)
	}
	return nil
}

// Load builds the effective configuration. Empty path falls back to
// $HEAPWATCH_CONFIG, then ~/.heapwatch/config.yaml; a missing file
// means defaults. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("HEAPWATCH_CONFIG")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".heapwatch", "config.yaml")
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			// YAML overwrites only the keys it names.
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
