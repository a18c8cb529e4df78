package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDefaultHorizon(t *testing.T) {
	cfg := Default()
	if got := cfg.HorizonTicks(); got != 180000000000 {
		t.Errorf("expected horizon 180000000000 ticks, got %d", got)
	}
}

func TestSeconds(t *testing.T) {
	cfg := Default()
	if got := cfg.Seconds(600000000); got != 1.0 {
		t.Errorf("expected 1.0s, got %v", got)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ClockHz != 600000000 {
		t.Errorf("expected default clock_hz, got %d", cfg.ClockHz)
	}
	if cfg.Copies != 3 {
		t.Errorf("expected 3 copies, got %d", cfg.Copies)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := writeConfig(t, "clock_hz: 1000000\nmax_plot_seconds: 10\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ClockHz != 1000000 {
		t.Errorf("expected clock_hz 1000000, got %d", cfg.ClockHz)
	}
	if cfg.HorizonTicks() != 10000000 {
		t.Errorf("expected horizon 10000000, got %d", cfg.HorizonTicks())
	}
	// Keys the file does not name keep defaults.
	if cfg.Capacity != 65536 {
		t.Errorf("expected default capacity, got %d", cfg.Capacity)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "capacity: 1024\n")
	t.Setenv("HEAPWATCH_CAPACITY", "2048")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Capacity != 2048 {
		t.Errorf("expected env capacity 2048, got %d", cfg.Capacity)
	}
}

func TestLoadPathFromEnv(t *testing.T) {
	path := writeConfig(t, "copies: 5\n")
	t.Setenv("HEAPWATCH_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Copies != 5 {
		t.Errorf("expected copies 5 from env-named file, got %d", cfg.Copies)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "clock_hz: [nope\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for bad YAML, got nil")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero clock", func(c *Config) { c.ClockHz = 0 }},
		{"zero horizon", func(c *Config) { c.MaxPlotSeconds = 0 }},
		{"negative capacity", func(c *Config) { c.Capacity = -1 }},
		{"warn ratio above one", func(c *Config) { c.WarnRatio = 1.5 }},
		{"empty marker", func(c *Config) { c.TransmissionMarker = "" }},
		{"zero copies", func(c *Config) { c.Copies = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
