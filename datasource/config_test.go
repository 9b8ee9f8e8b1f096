package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"airwidget-service/resolver"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "location": {"provider": "static", "latitude": 13.7563, "longitude": 100.5018},
  "resolver": {"maxDistanceKm": 25, "mode": "nearest"}
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Location.Provider != LocationStatic || cfg.Location.Latitude == nil || *cfg.Location.Latitude != 13.7563 {
		t.Errorf("unexpected location config: %+v", cfg.Location)
	}
	if cfg.Resolver.MaxDistanceKm != 25 || cfg.Resolver.Mode != resolver.ModeNearest {
		t.Errorf("unexpected resolver config: %+v", cfg.Resolver)
	}
	// Untouched sections keep their defaults
	if cfg.Air4Thai.BaseURL != DefaultAir4ThaiBaseURL {
		t.Errorf("BaseURL = %q", cfg.Air4Thai.BaseURL)
	}
	if cfg.Resolver.ExactMatchKm != resolver.DefaultExactMatchKm {
		t.Errorf("ExactMatchKm = %f", cfg.Resolver.ExactMatchKm)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"location": {"provider": "gps"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for unknown location provider")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("AIR4THAI_BASE_URL", "http://localhost:9999/aqi")
	t.Setenv("LOCATION_PROVIDER", "STATIC")
	t.Setenv("STATIC_LAT", "18.7883")
	t.Setenv("STATIC_LON", "98.9853")
	t.Setenv("MAX_DISTANCE_KM", "12.5")
	t.Setenv("RESOLVER_MODE", "nearest")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.Air4Thai.BaseURL != "http://localhost:9999/aqi" {
		t.Errorf("BaseURL = %q", cfg.Air4Thai.BaseURL)
	}
	if cfg.Location.Provider != LocationStatic {
		t.Errorf("Provider = %q", cfg.Location.Provider)
	}
	if cfg.Location.Latitude == nil || cfg.Location.Longitude == nil ||
		*cfg.Location.Latitude != 18.7883 || *cfg.Location.Longitude != 98.9853 {
		t.Errorf("static location = %v,%v", cfg.Location.Latitude, cfg.Location.Longitude)
	}
	if cfg.Resolver.MaxDistanceKm != 12.5 || cfg.Resolver.Mode != resolver.ModeNearest {
		t.Errorf("resolver = %+v", cfg.Resolver)
	}
}

func TestApplyEnvInvalidNumber(t *testing.T) {
	t.Setenv("MAX_DISTANCE_KM", "far")

	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric MAX_DISTANCE_KM")
	}
}

func TestStaticProviderNeedsCoordinate(t *testing.T) {
	t.Setenv("LOCATION_PROVIDER", "static")

	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected error for static provider without a coordinate")
	}

	t.Setenv("STATIC_LAT", "13.7563")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected error for static provider without a longitude")
	}

	// An explicit equator/meridian coordinate is still a coordinate
	t.Setenv("STATIC_LAT", "0")
	t.Setenv("STATIC_LON", "0")
	if err := DefaultConfig().ApplyEnv(); err != nil {
		t.Errorf("unexpected error for 0,0: %v", err)
	}
}

func TestLoadConfigStaticWithoutCoordinate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"location": {"provider": "static"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for static provider without a coordinate")
	}
}

func TestValidateRejectsNonPositiveLimits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero burst", func(c *Config) { c.Air4Thai.Burst = 0 }},
		{"negative burst", func(c *Config) { c.Air4Thai.Burst = -1 }},
		{"zero directory rps", func(c *Config) { c.Air4Thai.DirectoryRPS = 0 }},
		{"zero reading rps", func(c *Config) { c.Air4Thai.ReadingRPS = 0 }},
		{"zero max distance", func(c *Config) { c.Resolver.MaxDistanceKm = 0 }},
		{"negative max distance", func(c *Config) { c.Resolver.MaxDistanceKm = -5 }},
		{"zero exact match", func(c *Config) { c.Resolver.ExactMatchKm = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestApplyEnvZeroMaxDistance(t *testing.T) {
	t.Setenv("MAX_DISTANCE_KM", "0")

	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected error for MAX_DISTANCE_KM=0")
	}
}

func TestLoadConfigZeroBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"air4thai": {"burst": 0}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for burst 0")
	}
}
