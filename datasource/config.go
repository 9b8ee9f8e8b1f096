package datasource

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"airwidget-service/resolver"
)

// Location provider names accepted in configuration
const (
	LocationStatic = "static"
	LocationIPAPI  = "ipapi"
)

// Config represents the application configuration
type Config struct {
	// Station API configuration
	Air4Thai struct {
		BaseURL        string  `json:"baseURL"`
		TimeoutSeconds int     `json:"timeoutSeconds"`
		DirectoryRPS   float64 `json:"directoryRPS"`
		ReadingRPS     float64 `json:"readingRPS"`
		Burst          int     `json:"burst"`
	} `json:"air4thai"`

	// Where the user's coordinate comes from when a request carries none
	Location struct {
		Provider  string   `json:"provider"` // "static" or "ipapi"
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		IPAPIURL  string   `json:"ipapiURL"`
	} `json:"location"`

	Resolver resolver.Config `json:"resolver"`
}

// Timeout returns the per-request timeout of the station API client
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Air4Thai.TimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from a JSON file on top of DefaultConfig
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Air4Thai.BaseURL = DefaultAir4ThaiBaseURL
	config.Air4Thai.TimeoutSeconds = 10
	// The station list is large and rarely changes; single-station calls are cheap
	config.Air4Thai.DirectoryRPS = 0.2
	config.Air4Thai.ReadingRPS = 2
	config.Air4Thai.Burst = 3
	config.Location.Provider = LocationIPAPI
	config.Resolver = resolver.DefaultConfig()
	return config
}

// ApplyEnv overrides configuration values from environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("AIR4THAI_BASE_URL"); v != "" {
		c.Air4Thai.BaseURL = v
	}
	if v := os.Getenv("LOCATION_PROVIDER"); v != "" {
		c.Location.Provider = strings.ToLower(v)
	}

	if v, ok, err := envFloat("STATIC_LAT"); err != nil {
		return err
	} else if ok {
		c.Location.Latitude = &v
	}
	if v, ok, err := envFloat("STATIC_LON"); err != nil {
		return err
	} else if ok {
		c.Location.Longitude = &v
	}
	if v, ok, err := envFloat("MAX_DISTANCE_KM"); err != nil {
		return err
	} else if ok {
		c.Resolver.MaxDistanceKm = v
	}

	if v := os.Getenv("RESOLVER_MODE"); v != "" {
		c.Resolver.Mode = resolver.Mode(strings.ToLower(v))
	}

	return c.Validate()
}

func envFloat(key string) (float64, bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, true, nil
}

// Validate checks values that would otherwise fail at request time
func (c *Config) Validate() error {
	switch c.Location.Provider {
	case LocationStatic:
		if c.Location.Latitude == nil || c.Location.Longitude == nil {
			return fmt.Errorf("static location provider needs both latitude and longitude")
		}
	case LocationIPAPI:
	default:
		return fmt.Errorf("unknown location provider %q", c.Location.Provider)
	}

	switch c.Resolver.Mode {
	case "", resolver.ModeRanked, resolver.ModeNearest:
	default:
		return fmt.Errorf("unknown resolver mode %q", c.Resolver.Mode)
	}

	if c.Resolver.MaxDistanceKm <= 0 {
		return fmt.Errorf("maxDistanceKm must be positive, got %g", c.Resolver.MaxDistanceKm)
	}
	if c.Resolver.ExactMatchKm <= 0 {
		return fmt.Errorf("exactMatchKm must be positive, got %g", c.Resolver.ExactMatchKm)
	}

	if c.Air4Thai.DirectoryRPS <= 0 || c.Air4Thai.ReadingRPS <= 0 {
		return fmt.Errorf("directoryRPS and readingRPS must be positive, got %g and %g",
			c.Air4Thai.DirectoryRPS, c.Air4Thai.ReadingRPS)
	}
	if c.Air4Thai.Burst <= 0 {
		return fmt.Errorf("burst must be positive, got %d", c.Air4Thai.Burst)
	}

	return nil
}
