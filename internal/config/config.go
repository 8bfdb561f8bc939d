package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/skylive/airportal/internal/feeds"
	"github.com/skylive/airportal/internal/weather"
)

// Config represents the main application configuration structure
type Config struct {
	Server  ServerConfig   `toml:"server"`  // HTTP server settings
	Logging LoggingConfig  `toml:"logging"` // Application logging settings
	Storage StorageConfig  `toml:"storage"` // Airport model persistence settings
	Station StationConfig  `toml:"station"` // Default airport settings
	Live    LiveConfig     `toml:"live"`    // Live reconciliation engine settings
	Weather weather.Config `toml:"wx"`      // METAR/TAF fetching and caching settings
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port               int      `toml:"port"`                  // Primary HTTP port
	Host               string   `toml:"host"`                  // Bind address (127.0.0.1 for localhost only, 0.0.0.0 for all interfaces)
	AdditionalPorts    []int    `toml:"additional_ports"`      // Extra listener ports (useful for multiple interfaces)
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // Origins allowed for CORS requests (["*"] for all)
	ReadTimeoutSecs    int      `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request
	WriteTimeoutSecs   int      `toml:"write_timeout_seconds"` // Maximum duration for writing the response
	IdleTimeoutSecs    int      `toml:"idle_timeout_seconds"`  // Keep-alive idle timeout
	StaticFilesDir     string   `toml:"static_files_dir"`      // Directory to serve the portal frontend from
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", or "error"
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // Optional rotating log file path
}

// StorageConfig contains airport model persistence configuration
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path"` // Path to the airports SQLite database
	SeedPath   string `toml:"seed_path"`   // Optional JSON seed imported at startup
}

// StationConfig identifies the portal's home airport
type StationConfig struct {
	AirportCode string `toml:"airport_code"` // ICAO code, e.g. "LPPT"
}

// LiveConfig contains the live reconciliation engine settings
type LiveConfig struct {
	Feeds               feeds.ClientConfig `toml:"feeds"`                 // Live-network feed endpoints
	PollIntervalSeconds int                `toml:"poll_interval_seconds"` // Client poll interval (default 60)
}

// Load loads the configuration from the specified file path
func Load(path string) (*Config, error) {
	var config Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations
// in order of preference
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{
		preferredPath,
		"configs/config.toml",
		"config.toml",
	}

	var lastErr error
	for _, path := range searchPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			lastErr = fmt.Errorf("config file not found: %s", path)
			continue
		}
		config, err := Load(path)
		if err != nil {
			lastErr = fmt.Errorf("failed to load config from %s: %w", path, err)
			continue
		}
		return config, nil
	}

	return nil, fmt.Errorf("config file not found in any of the expected locations. Last error: %w", lastErr)
}

// Validate validates the configuration and fills documented defaults
func (c *Config) Validate() error {
	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	portsSeen := map[int]bool{c.Server.Port: true}
	for _, p := range c.Server.AdditionalPorts {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("invalid additional server port: %d", p)
		}
		if portsSeen[p] {
			return fmt.Errorf("duplicate port configured: %d", p)
		}
		portsSeen[p] = true
	}

	// Logging
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	// Storage
	if c.Storage.SQLitePath == "" {
		return fmt.Errorf("storage sqlite_path is required")
	}

	// Station
	if c.Station.AirportCode == "" {
		return fmt.Errorf("station airport_code is required")
	}

	// Live engine
	if c.Live.PollIntervalSeconds == 0 {
		c.Live.PollIntervalSeconds = 60
	}
	if c.Live.PollIntervalSeconds < 0 {
		return fmt.Errorf("invalid poll_interval_seconds: %d", c.Live.PollIntervalSeconds)
	}
	if c.Live.Feeds.RequestTimeoutSeconds <= 0 {
		c.Live.Feeds.RequestTimeoutSeconds = 10
	}
	if c.Live.Feeds.MaxRetries < 0 {
		return fmt.Errorf("invalid feeds max_retries: %d", c.Live.Feeds.MaxRetries)
	}

	// Weather
	if c.Weather.RefreshIntervalMinutes <= 0 {
		c.Weather.RefreshIntervalMinutes = 10
	}
	if c.Weather.RequestTimeoutSeconds <= 0 {
		c.Weather.RequestTimeoutSeconds = 10
	}
	if c.Weather.MaxRetries < 0 {
		return fmt.Errorf("invalid weather max_retries: %d", c.Weather.MaxRetries)
	}
	if c.Weather.CacheExpiryMinutes <= 0 {
		c.Weather.CacheExpiryMinutes = 15
	}
	if c.Weather.APIBaseURL == "" {
		c.Weather.APIBaseURL = "https://aviationweather.gov/api/data"
	}

	return nil
}
